package issues_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/google/go-github/v84/github"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
	"github.com/smykla-skalski/claude-hooks/internal/issues"
)

var _ = Describe("CLILister", func() {
	var (
		runner *execpkg.MockCommandRunner
		lister *issues.CLILister
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = execpkg.NewMockCommandRunner(gomock.NewController(GinkgoT()))
		lister = issues.NewCLILister(runner, "/proj")
		ctx = context.Background()
	})

	It("decodes gh output", func() {
		runner.EXPECT().IsAvailable("gh").Return(true)
		runner.EXPECT().
			Run(ctx, "/proj", "gh", "issue", "list", "--limit", "5", "--json", "number,title,state").
			Return(&execpkg.CommandResult{
				Stdout: `[{"number":12,"title":"Fix login","state":"OPEN"},{"number":9,"title":"Docs","state":"OPEN"}]`,
			})

		list, err := lister.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(Equal([]issues.Issue{
			{Number: 12, Title: "Fix login", State: "OPEN"},
			{Number: 9, Title: "Docs", State: "OPEN"},
		}))
	})

	It("reports a missing gh binary", func() {
		runner.EXPECT().IsAvailable("gh").Return(false)

		_, err := lister.List(ctx, 3)
		Expect(err).To(MatchError(issues.ErrUnavailable))
	})

	It("reports failed runs", func() {
		runner.EXPECT().IsAvailable("gh").Return(true)
		runner.EXPECT().Run(ctx, "/proj", "gh", "issue", "list", "--limit", "3", "--json", "number,title,state").
			Return(&execpkg.CommandResult{ExitCode: 1, Stderr: "not logged in"})

		_, err := lister.List(ctx, 3)
		Expect(err).To(MatchError(ContainSubstring("not logged in")))
	})

	It("reports undecodable output", func() {
		runner.EXPECT().IsAvailable("gh").Return(true)
		runner.EXPECT().Run(ctx, "/proj", "gh", "issue", "list", "--limit", "3", "--json", "number,title,state").
			Return(&execpkg.CommandResult{Stdout: "not json"})

		_, err := lister.List(ctx, 3)
		Expect(err).To(HaveOccurred())
	})
})

type fakeInspector struct {
	remote string
	err    error
}

func (fakeInspector) Status(context.Context) internalgit.Status { return internalgit.Status{} }

func (f fakeInspector) RemoteURL(context.Context, string) (string, error) {
	return f.remote, f.err
}

var _ = Describe("APILister", func() {
	var (
		server *httptest.Server
		mux    *http.ServeMux
		client *github.Client
	)

	BeforeEach(func() {
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)
		DeferCleanup(server.Close)

		client = github.NewClient(nil)
		base, err := url.Parse(server.URL + "/")
		Expect(err).NotTo(HaveOccurred())
		client.BaseURL = base
	})

	It("lists open issues and skips pull requests", func() {
		mux.HandleFunc("/repos/acme/tools/issues", func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Query().Get("state")).To(Equal("open"))
			fmt.Fprint(w, `[
				{"number":3,"title":"Bug","state":"open"},
				{"number":2,"title":"PR","state":"open","pull_request":{"url":"x"}},
				{"number":1,"title":"Feature","state":"open"}
			]`)
		})

		lister := issues.NewAPILister(fakeInspector{remote: "git@github.com:acme/tools.git"}, "").
			WithClient(client)

		list, err := lister.List(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(Equal([]issues.Issue{
			{Number: 3, Title: "Bug", State: "open"},
			{Number: 1, Title: "Feature", State: "open"},
		}))
	})

	It("maps 404 to ErrRepositoryNotFound", func() {
		mux.HandleFunc("/repos/acme/gone/issues", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		lister := issues.NewAPILister(fakeInspector{remote: "https://github.com/acme/gone"}, "").
			WithClient(client)

		_, err := lister.List(context.Background(), 5)
		Expect(err).To(MatchError(issues.ErrRepositoryNotFound))
	})

	It("refuses non-GitHub remotes", func() {
		lister := issues.NewAPILister(fakeInspector{remote: "https://gitlab.com/a/b"}, "").
			WithClient(client)

		_, err := lister.List(context.Background(), 5)
		Expect(err).To(MatchError(issues.ErrUnavailable))
	})

	It("refuses repositories without a remote", func() {
		lister := issues.NewAPILister(fakeInspector{err: internalgit.ErrRemoteNotFound}, "").
			WithClient(client)

		_, err := lister.List(context.Background(), 5)
		Expect(err).To(MatchError(issues.ErrUnavailable))
	})
})
