package fleet

import (
	"context"
	"errors"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/deployfleet/internal/config"
	"github.com/imamik/deployfleet/internal/provisioning"
	"github.com/imamik/deployfleet/internal/state"
)

var _ = ginkgo.Describe("Deployer", func() {
	var (
		ctx         context.Context
		root        *config.RootConfig
		backend     *state.MemoryBackend
		store       *state.Store
		catalog     *fakeCatalog
		observer    *provisioning.MockObserver
		postRuns    int
		postErr     error
		deployer    *Deployer
		openStore   func(seed string)
		buildDriver func(sel Selection)
	)

	openStore = func(seed string) {
		var data []byte
		if seed != "" {
			data = []byte(seed)
		}
		backend = state.NewMemoryBackend(data)
		var err error
		store, err = state.Open(ctx, backend)
		Expect(err).NotTo(HaveOccurred())
	}

	buildDriver = func(sel Selection) {
		deployer = &Deployer{
			Root:      root,
			Store:     store,
			Selection: sel,
			Catalog:   catalog,
			Observer:  observer,
			PostProcess: func(context.Context) error {
				postRuns++
				return postErr
			},
		}
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		root = fullRoot()
		catalog = newFakeCatalog()
		observer = provisioning.NewMockObserver()
		postRuns = 0
		postErr = nil
		openStore("")
		buildDriver(SelectAll())
	})

	ginkgo.Context("first deployment of the whole fleet", func() {
		ginkgo.It("sets up every project in dependency order", func() {
			report, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(catalog.Executed()).To(Equal([]string{
				"audit-logs:create", "audit-logs:apis", "audit-logs:resources",
				"forseti-prj:create", "forseti-prj:apis", "forseti-prj:resources",
				"forseti-prj:install", "forseti-prj:grant forseti-prj", "forseti-prj:grant audit-logs",
				"data-one:create", "data-one:apis", "data-one:resources", "data-one:grant data-one",
				"data-two:create", "data-two:apis", "data-two:resources", "data-two:grant data-two",
			}))
			Expect(report.Count(OutcomeSucceeded)).To(Equal(4))
			Expect(report.PostProcessed).To(BeTrue())
			Expect(postRuns).To(Equal(1))
		})

		ginkgo.It("leaves a deployed entry without checkpoint for every project", func() {
			_, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.ProjectIDs()).To(ConsistOf("audit-logs", "forseti-prj", "data-one", "data-two"))
			for _, id := range store.ProjectIDs() {
				entry, ok := store.Lookup(id)
				Expect(ok).To(BeTrue())
				Expect(entry.Deployed()).To(BeTrue(), id)
			}
			Expect(string(backend.Bytes())).NotTo(ContainSubstring("failed_step"))
		})
	})

	ginkgo.Context("when the audit-logs project fails", func() {
		ginkgo.BeforeEach(func() {
			catalog.failOn("audit-logs", "apis")
		})

		ginkgo.It("attempts nothing else", func() {
			report, err := deployer.Run(ctx)

			var failed *ProjectFailedError
			Expect(errors.As(err, &failed)).To(BeTrue())
			Expect(failed.ProjectID).To(Equal("audit-logs"))

			Expect(catalog.Executed()).To(Equal([]string{"audit-logs:create", "audit-logs:apis"}))
			Expect(report.Projects).To(Equal([]ProjectResult{
				{ID: "audit-logs", Outcome: OutcomeFailed},
				{ID: "forseti-prj", Outcome: OutcomeNotAttempted},
				{ID: "data-one", Outcome: OutcomeNotAttempted},
				{ID: "data-two", Outcome: OutcomeNotAttempted},
			}))
			Expect(postRuns).To(BeZero())
			Expect(report.PostProcessed).To(BeFalse())
		})

		ginkgo.It("checkpoints the failed step for the next run", func() {
			_, _ = deployer.Run(ctx)

			entry, ok := store.Lookup("audit-logs")
			Expect(ok).To(BeTrue())
			Expect(entry.FailedStep).To(Equal(2))
			_, attempted := store.Lookup("forseti-prj")
			Expect(attempted).To(BeFalse())
		})

		ginkgo.It("reports the failure to the observer", func() {
			_, _ = deployer.Run(ctx)

			events := observer.EventsOfType(provisioning.EventProjectFailed)
			Expect(events).To(HaveLen(1))
			Expect(events[0].Project).To(Equal("audit-logs"))
		})
	})

	ginkgo.Context("when a previous run stopped at a checkpoint", func() {
		ginkgo.BeforeEach(func() {
			openStore(`projects:
  audit-logs:
    project_number: "1"
  forseti-prj:
    project_number: "2"
  data-one:
    project_number: "3"
    failed_step: 3
forseti:
  service_account: sa@forseti-prj.iam.gserviceaccount.com
`)
			buildDriver(ParseSelection([]string{"data-one"}))
		})

		ginkgo.It("resumes at the failed step", func() {
			_, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(catalog.Executed()).To(Equal([]string{"data-one:resources", "data-one:grant data-one"}))
			entry, _ := store.Lookup("data-one")
			Expect(entry.Deployed()).To(BeTrue())
			Expect(entry.ProjectNumber).To(Equal("3"))
		})
	})

	ginkgo.Context("when projects are already deployed", func() {
		ginkgo.BeforeEach(func() {
			openStore(`projects:
  data-one:
    project_number: "3"
`)
			buildDriver(ParseSelection([]string{"data-one"}))
		})

		ginkgo.It("runs the updatable steps only", func() {
			_, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(catalog.Executed()).To(Equal([]string{"data-one:apis", "data-one:resources"}))
			Expect(observer.EventsOfType(provisioning.EventStepSkipped)).To(HaveLen(2))
		})

		ginkgo.It("does not checkpoint a failed update", func() {
			catalog.failOn("data-one", "resources")

			_, err := deployer.Run(ctx)
			Expect(err).To(HaveOccurred())

			entry, _ := store.Lookup("data-one")
			Expect(entry.FailedStep).To(BeZero())
		})
	})

	ginkgo.Context("when a project requests a disallowed API", func() {
		ginkgo.BeforeEach(func() {
			root.Overall.AllowedAPIs = []string{"compute.googleapis.com"}
			root.Projects[0].EnabledAPIs = []string{"compute.googleapis.com", "bigquery-json.googleapis.com"}
			root.Projects[1].EnabledAPIs = []string{"bigquery-json.googleapis.com"}
		})

		ginkgo.It("rejects the run before any step executes", func() {
			report, err := deployer.Run(ctx)

			var disallowed *provisioning.DisallowedAPIsError
			Expect(errors.As(err, &disallowed)).To(BeTrue())
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
			Expect(disallowed.APIs).To(HaveKeyWithValue("bigquery-json.googleapis.com", []string{"data-one", "data-two"}))

			Expect(catalog.Executed()).To(BeEmpty())
			Expect(report.Count(OutcomeNotAttempted)).To(Equal(4))
			Expect(backend.Writes).To(BeZero())
			Expect(observer.EventsOfType(provisioning.EventValidationError)).To(HaveLen(2))
		})
	})

	ginkgo.Context("post-processing", func() {
		ginkgo.It("surfaces a rule generator failure without a checkpoint", func() {
			postErr = errors.New("exit status 2")

			report, err := deployer.Run(ctx)
			Expect(err).To(MatchError(ContainSubstring("failed to generate forseti rules")))
			Expect(report.Count(OutcomeSucceeded)).To(Equal(4))
			Expect(report.PostProcessed).To(BeFalse())
			Expect(string(backend.Bytes())).NotTo(ContainSubstring("failed_step"))
		})

		ginkgo.It("is skipped without a forseti project", func() {
			root.Forseti = nil

			report, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(postRuns).To(BeZero())
			Expect(report.PostProcessed).To(BeFalse())
		})
	})

	ginkgo.Context("when the generated fields cannot be persisted", func() {
		ginkgo.It("aborts the run with a persistence error", func() {
			backend.WriteErr = errors.New("disk full")

			report, err := deployer.Run(ctx)
			Expect(errors.Is(err, state.ErrPersist)).To(BeTrue())
			Expect(catalog.Executed()).To(Equal([]string{"audit-logs:create"}))
			Expect(report.Projects[0].Outcome).To(Equal(OutcomeFailed))
			Expect(postRuns).To(BeZero())
		})
	})

	ginkgo.Context("with a selection matching nothing", func() {
		ginkgo.It("succeeds without touching any project", func() {
			buildDriver(ParseSelection([]string{"unknown-project"}))

			report, err := deployer.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Projects).To(BeEmpty())
			Expect(catalog.Executed()).To(BeEmpty())
		})
	})
})
