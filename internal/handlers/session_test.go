package handlers_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
	"github.com/smykla-skalski/claude-hooks/internal/handlers"
	"github.com/smykla-skalski/claude-hooks/internal/issues"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

var _ = Describe("SessionStart", func() {
	var (
		root string
		ctx  context.Context
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		ctx = context.Background()
	})

	It("logs the source and emits nothing without flags", func() {
		h := newHooks(root)

		res, err := h.SessionStart(handlers.SessionStartOptions{})(ctx, event(hook.EventKindSessionStart, `{"session_id":"s1"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response).To(BeNil())

		recs := readLog(h, eventlog.FileSessionStart)
		Expect(recs).To(HaveLen(1))
		Expect(recs[0]).To(HaveKeyWithValue("event", "session_start"))
		Expect(recs[0]).To(HaveKeyWithValue("source", "unknown"))
		Expect(recs[0]).To(HaveKeyWithValue("timestamp", fixedStamp))
		Expect(recs[0]).NotTo(HaveKey("context_loaded"))
	})

	It("renders the development context", func() {
		Expect(os.WriteFile(filepath.Join(root, "TODO.md"), []byte("ship it"), 0o600)).To(Succeed())

		h := newHooks(root,
			handlers.WithInspector(fakeInspector{status: internalgit.Status{
				IsRepo:           true,
				Branch:           "main",
				UncommittedCount: 2,
				LastCommit:       "abc1234 - Add hooks (2 hours ago)",
			}}),
			handlers.WithIssueLister(fakeLister{list: []issues.Issue{
				{Number: 7, Title: "Fix idle detector", State: "OPEN"},
			}}),
		)

		res, err := h.SessionStart(handlers.SessionStartOptions{LoadContext: true})(ctx,
			event(hook.EventKindSessionStart, `{"session_id":"s1","source":"startup"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response).NotTo(BeNil())
		Expect(res.Response.HookSpecificOutput.HookEventName).To(Equal("SessionStart"))
		Expect(res.Response.HookSpecificOutput.AdditionalContext).To(Equal(
			"## Development Context\n\n" +
				"**Branch:** `main`\n" +
				"**Uncommitted changes:** 2 files\n" +
				"**Last commit:** abc1234 - Add hooks (2 hours ago)\n\n" +
				"**Recent Issues:**\n" +
				"- #7: Fix idle detector\n\n" +
				"**Project Documentation:**\n" +
				"\n### TODO.md\nship it\n",
		))

		rec := readLog(h, eventlog.FileSessionStart)[0]
		Expect(rec).To(HaveKeyWithValue("source", "startup"))
		Expect(rec).To(HaveKeyWithValue("context_loaded", true))
		Expect(rec["context_keys"]).To(ConsistOf(
			"timestamp", "session_id", "session_source", "git", "recent_issues", "documentation",
		))
	})

	It("omits git and issues outside a repository", func() {
		h := newHooks(root, handlers.WithIssueLister(fakeLister{err: errors.New("unused")}))

		res, err := h.SessionStart(handlers.SessionStartOptions{LoadContext: true})(ctx,
			event(hook.EventKindSessionStart, `{}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response.HookSpecificOutput.AdditionalContext).To(Equal("## Development Context\n\n"))
		Expect(readLog(h, eventlog.FileSessionStart)[0]["context_keys"]).To(
			ConsistOf("timestamp", "session_id", "session_source"))
	})

	It("keeps going when issues cannot be listed", func() {
		h := newHooks(root,
			handlers.WithInspector(fakeInspector{status: internalgit.Status{IsRepo: true, Branch: "dev", IsClean: true}}),
			handlers.WithIssueLister(fakeLister{err: issues.ErrUnavailable}),
		)

		res, err := h.SessionStart(handlers.SessionStartOptions{LoadContext: true})(ctx, event(hook.EventKindSessionStart, `{}`))
		Expect(err).NotTo(HaveOccurred())

		text := res.Response.HookSpecificOutput.AdditionalContext
		Expect(text).To(ContainSubstring("**Branch:** `dev`"))
		Expect(text).NotTo(ContainSubstring("Uncommitted"))
		Expect(text).NotTo(ContainSubstring("Recent Issues"))
	})

	It("truncates long documents", func() {
		Expect(os.MkdirAll(filepath.Join(root, ".claude"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, ".claude", "CONTEXT.md"),
			[]byte(strings.Repeat("x", 2000)), 0o600)).To(Succeed())

		h := newHooks(root)

		res, err := h.SessionStart(handlers.SessionStartOptions{LoadContext: true})(ctx, event(hook.EventKindSessionStart, `{}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response.HookSpecificOutput.AdditionalContext).To(HaveSuffix(
			"### .claude/CONTEXT.md\n" + strings.Repeat("x", 500) + "\n"))
	})

	It("announces the session and ignores speech failures", func() {
		mock := execpkg.NewMockCommandRunner(gomock.NewController(GinkgoT()))
		mock.EXPECT().Run(gomock.Any(), root, "say", "Claude session resume").
			Return(&execpkg.CommandResult{ExitCode: -1, Err: execpkg.ErrTimeout})

		h := newHooks(root, handlers.WithRunnerFactory(func(timeout time.Duration) execpkg.CommandRunner {
			Expect(timeout).To(Equal(2 * time.Second))

			return mock
		}))

		res, err := h.SessionStart(handlers.SessionStartOptions{Announce: true})(ctx,
			event(hook.EventKindSessionStart, `{"source":"resume"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.IsBlock()).To(BeFalse())
	})
})

var _ = Describe("SessionEnd", func() {
	It("logs the reason with a default", func() {
		h := newHooks(GinkgoT().TempDir())

		_, err := h.SessionEnd(context.Background(), event(hook.EventKindSessionEnd, `{"session_id":"s1"}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = h.SessionEnd(context.Background(), event(hook.EventKindSessionEnd, `{"reason":"logout"}`))
		Expect(err).NotTo(HaveOccurred())

		recs := readLog(h, eventlog.FileSessionEnd)
		Expect(recs).To(HaveLen(2))
		Expect(recs[0]).To(HaveKeyWithValue("reason", "unknown"))
		Expect(recs[0]).To(HaveKeyWithValue("session_id", "s1"))
		Expect(recs[1]).To(HaveKeyWithValue("reason", "logout"))
		Expect(recs[1]).To(HaveKeyWithValue("session_id", BeNil()))
	})
})
