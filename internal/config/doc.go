// Package config defines the typed project configuration and the runtime
// options shared by every deployment component.
//
// [RootConfig] is the declarative input: overall settings, the optional
// audit-logs and forseti projects and the ordinary projects in declared
// order. [LoadFile] checks the document against an embedded JSON schema,
// decodes it and runs [RootConfig.Validate] so that later stages never
// re-check presence of fields.
//
// [Options] carries process-level settings (paths, external binaries,
// feature toggles) and [Timeouts] the limits for external actions.
package config
