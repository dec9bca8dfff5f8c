package config

import "gopkg.in/yaml.v3"

// keySet records the mapping keys present in the source document, so an
// empty list can be told apart from an absent one.
type keySet map[string]bool

func mappingKeys(node *yaml.Node) keySet {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make(keySet, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}
	return keys
}

// UnmarshalYAML decodes the resources and remembers which kinds were declared.
func (r *Resources) UnmarshalYAML(node *yaml.Node) error {
	type plain Resources
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}
	r.declared = mappingKeys(node)
	return nil
}

// Declares reports whether the resource kind key is declared, including as
// an empty list.
func (r Resources) Declares(key string) bool {
	if r.declared[key] {
		return true
	}
	switch key {
	case "gce_instances":
		return len(r.GCEInstances) > 0
	case "gcs_buckets":
		return len(r.GCSBuckets) > 0
	case "iam_policies":
		return len(r.IAMPolicies) > 0
	case "iam_custom_roles":
		return len(r.IAMCustomRoles) > 0
	case "chc_datasets":
		return len(r.CHCDatasets) > 0
	case "gke_clusters":
		return len(r.GKEClusters) > 0
	}
	_, ok := r.Extra[key]
	return ok
}

// UnmarshalYAML decodes the bucket and remembers whether expected_users was set.
func (b *DataBucket) UnmarshalYAML(node *yaml.Node) error {
	type plain DataBucket
	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}
	b.declared = mappingKeys(node)
	return nil
}

// HasExpectedUsers reports whether expected_users is declared, even empty.
func (b DataBucket) HasExpectedUsers() bool {
	return b.declared["expected_users"] || len(b.ExpectedUsers) > 0
}

// UnmarshalYAML decodes the bucket and remembers whether expected_users was set.
func (b *GCSBucket) UnmarshalYAML(node *yaml.Node) error {
	type plain GCSBucket
	if err := node.Decode((*plain)(b)); err != nil {
		return err
	}
	b.declared = mappingKeys(node)
	return nil
}

// HasExpectedUsers reports whether expected_users is declared, even empty.
func (b GCSBucket) HasExpectedUsers() bool {
	return b.declared["expected_users"] || len(b.ExpectedUsers) > 0
}
