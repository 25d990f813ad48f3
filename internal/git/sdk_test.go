package git_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing/object"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
)

var _ = Describe("SDKInspector", func() {
	var (
		dir  string
		repo *git.Repository
	)

	BeforeEach(func() {
		var err error

		dir = GinkgoT().TempDir()
		repo, err = git.PlainInit(dir, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644)).To(Succeed())

		wt, err := repo.Worktree()
		Expect(err).NotTo(HaveOccurred())

		_, err = wt.Add("a.txt")
		Expect(err).NotTo(HaveOccurred())

		_, err = wt.Commit("Initial commit\n\nbody", &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports a clean tree with the last commit subject", func() {
		inspector, err := internalgit.OpenSDKInspector(dir)
		Expect(err).NotTo(HaveOccurred())

		st := inspector.Status(context.Background())

		Expect(st.IsRepo).To(BeTrue())
		Expect(st.Branch).NotTo(BeEmpty())
		Expect(st.IsClean).To(BeTrue())
		Expect(st.LastCommit).To(MatchRegexp(`^[0-9a-f]{7} - Initial commit \(.+\)$`))
	})

	It("counts modified and untracked files", func() {
		Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0o644)).To(Succeed())

		inspector, err := internalgit.OpenSDKInspector(dir)
		Expect(err).NotTo(HaveOccurred())

		st := inspector.Status(context.Background())
		Expect(st.UncommittedCount).To(Equal(2))
		Expect(st.IsClean).To(BeFalse())
	})

	It("reads remotes", func() {
		_, err := repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{"git@github.com:acme/tools.git"},
		})
		Expect(err).NotTo(HaveOccurred())

		inspector, err := internalgit.OpenSDKInspector(dir)
		Expect(err).NotTo(HaveOccurred())

		url, err := inspector.RemoteURL(context.Background(), "origin")
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("git@github.com:acme/tools.git"))

		_, err = inspector.RemoteURL(context.Background(), "upstream")
		Expect(err).To(MatchError(internalgit.ErrRemoteNotFound))
	})

	It("returns ErrNotRepository outside a repository", func() {
		_, err := internalgit.OpenSDKInspector(GinkgoT().TempDir())
		Expect(err).To(MatchError(internalgit.ErrNotRepository))
	})

	It("falls back to an empty inspector", func() {
		inspector := internalgit.NewInspector(true, nil, GinkgoT().TempDir())

		Expect(inspector.Status(context.Background()).IsRepo).To(BeFalse())
	})
})
