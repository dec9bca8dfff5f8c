package fleet

import (
	"fmt"
	"sync"

	"github.com/imamik/deployfleet/internal/provisioning"
)

// fakeCatalog builds steps that record "<project>:<description>" when run
// and fail for the configured project/step pairs.
type fakeCatalog struct {
	mu       sync.Mutex
	executed []string
	failures map[string]error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{failures: map[string]error{}}
}

func (c *fakeCatalog) failOn(project, desc string) {
	c.failures[project+":"+desc] = fmt.Errorf("%s failed", desc)
}

func (c *fakeCatalog) step(desc string, updatable bool) provisioning.Step {
	return provisioning.Step{
		Description: desc,
		Updatable:   updatable,
		Action: func(ctx *provisioning.Context) error {
			key := ctx.ProjectID() + ":" + desc
			c.mu.Lock()
			c.executed = append(c.executed, key)
			c.mu.Unlock()
			return c.failures[key]
		},
	}
}

func (c *fakeCatalog) Base() []provisioning.Step {
	return []provisioning.Step{
		c.step("create", false),
		c.step("apis", true),
		c.step("resources", true),
	}
}

func (c *fakeCatalog) InstallForseti() provisioning.Step {
	return c.step("install", false)
}

func (c *fakeCatalog) GrantForsetiAccess(projectID string) provisioning.Step {
	return c.step("grant "+projectID, false)
}

func (c *fakeCatalog) Executed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.executed...)
}

func descriptions(steps []provisioning.Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Description)
	}
	return out
}
