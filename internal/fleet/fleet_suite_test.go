package fleet

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestFleet is the entry point for the deployer scenarios.
func TestFleet(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Fleet Deployer Suite")
}
