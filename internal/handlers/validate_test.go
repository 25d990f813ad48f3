package handlers_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	execpkg "github.com/smykla-skalski/claude-hooks/internal/exec"
	"github.com/smykla-skalski/claude-hooks/internal/handlers"
	"github.com/smykla-skalski/claude-hooks/internal/td"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

var _ = Describe("PostToolUseFailure", func() {
	var h *handlers.Hooks

	BeforeEach(func() {
		h = newHooks(GinkgoT().TempDir())
	})

	It("logs the failure and explains Bash errors", func() {
		res, err := h.PostToolUseFailure(context.Background(), event(hook.EventKindPostToolUseFailure,
			`{"session_id":"s1","tool_name":"Bash","tool_use_id":"t1","error":"command not found","exit_code":127,"tool_input":{"command":"foo"}}`))
		Expect(err).NotTo(HaveOccurred())

		out := res.Response.HookSpecificOutput
		Expect(out.HookEventName).To(Equal("PostToolUseFailure"))
		Expect(out.AdditionalContext).To(Equal(
			"## Tool Failure: Bash\n\n" +
				"**Error:** command not found\n\n" +
				"**Exit Code:** 127\n\n" +
				"**Debugging Tips:**\n" +
				"- Check command syntax\n" +
				"- Verify file paths exist\n" +
				"- Check permissions\n" +
				"- Ensure required tools are installed\n",
		))

		rec := readLog(h, eventlog.FileToolFailures)[0]
		Expect(rec).To(HaveKeyWithValue("event", "tool_failure"))
		Expect(rec).To(HaveKeyWithValue("error_message", "command not found"))
		Expect(rec).To(HaveKeyWithValue("exit_code", 127.0))
		Expect(rec).To(HaveKeyWithValue("tool_use_id", "t1"))
	})

	It("replaces written content with its length", func() {
		res, err := h.PostToolUseFailure(context.Background(), event(hook.EventKindPostToolUseFailure,
			`{"tool_name":"Write","tool_input":{"file_path":"/x/a.go","content":"hello"}}`))
		Expect(err).NotTo(HaveOccurred())

		text := res.Response.HookSpecificOutput.AdditionalContext
		Expect(text).To(ContainSubstring("**Error:** Unknown error"))
		Expect(text).NotTo(ContainSubstring("Exit Code"))
		Expect(text).To(ContainSubstring("- Check write permissions"))

		rec := readLog(h, eventlog.FileToolFailures)[0]
		Expect(rec["tool_input"]).To(Equal(map[string]any{"file_path": "/x/a.go", "content": "<5 chars>"}))
	})

	It("gives no tips for other tools", func() {
		res, err := h.PostToolUseFailure(context.Background(), event(hook.EventKindPostToolUseFailure, `{"tool_name":"WebFetch"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response.HookSpecificOutput.AdditionalContext).NotTo(ContainSubstring("Debugging Tips"))
	})
})

var _ = Describe("MarkdownValidator", func() {
	var (
		dir string
		h   *handlers.Hooks
	)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		h = newHooks(dir)
	})

	It("reports unclosed fences as PostToolUse context", func() {
		path := write("doc.md", "# Title\n\n```go\nfunc main() {}\n")

		res, err := h.MarkdownValidator(context.Background(), event(hook.EventKindPostToolUse,
			`{"tool_name":"Write","tool_input":{"file_path":"`+path+`"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response.HookSpecificOutput.HookEventName).To(Equal("PostToolUse"))
		Expect(res.Response.HookSpecificOutput.AdditionalContext).To(Equal(
			"Markdown validation issues in " + path + ": Unclosed code blocks"))
	})

	It("stays silent for clean files, other extensions and missing files", func() {
		clean := write("ok.md", "# Title\n\n```\ncode\n```\n")
		other := write("a.txt", "```")

		for _, p := range []string{clean, other, filepath.Join(dir, "gone.md")} {
			res, err := h.MarkdownValidator(context.Background(), event(hook.EventKindPostToolUse,
				`{"tool_input":{"file_path":"`+p+`"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Response).To(BeNil())
		}
	})

	It("resolves relative paths against the event cwd", func() {
		write("rel.md", "#\n")

		res, err := h.MarkdownValidator(context.Background(), event(hook.EventKindPostToolUse,
			`{"cwd":"`+dir+`","tool_input":{"file_path":"rel.md"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Response.HookSpecificOutput.AdditionalContext).To(Equal(
			"Markdown validation issues in rel.md: Empty headings found"))
	})
})

var _ = Describe("IdleDetector", func() {
	var (
		dir string
		h   *handlers.Hooks
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		h = newHooks(dir)
	})

	It("prints a continuation prompt for TODO markers", func() {
		path := filepath.Join(dir, "t.jsonl")
		Expect(os.WriteFile(path, []byte(
			`{"type":"tool_use","name":"Write","input":{"content":"// TODO: finish"}}`+"\n"), 0o600)).To(Succeed())

		res, err := h.IdleDetector(context.Background(), event(hook.EventKindStop, `{"transcript_path":"`+path+`"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stdout).To(ContainSubstring("TODO comments in code"))
		Expect(res.Decision.ExitCode()).To(Equal(decision.ExitAllow))
	})

	It("is silent without a transcript", func() {
		res, err := h.IdleDetector(context.Background(), event(hook.EventKindStop,
			`{"transcript_path":"`+filepath.Join(dir, "none.jsonl")+`"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stdout).To(BeEmpty())
	})
})

var _ = Describe("TDEnforcer", func() {
	var (
		root string
		mock *execpkg.MockCommandRunner
		h    *handlers.Hooks
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		mock = execpkg.NewMockCommandRunner(gomock.NewController(GinkgoT()))
		h = newHooks(root, handlers.WithRunnerFactory(func(timeout time.Duration) execpkg.CommandRunner {
			Expect(timeout).To(Equal(5 * time.Second))

			return mock
		}))
	})

	It("blocks code edits without an active task", func() {
		Expect(os.Mkdir(filepath.Join(root, td.StoreDir), 0o755)).To(Succeed())
		mock.EXPECT().Run(gomock.Any(), root, "td", "--version").Return(&execpkg.CommandResult{Stdout: "td 1"})
		mock.EXPECT().Run(gomock.Any(), root, "td", "status", "--json").Return(&execpkg.CommandResult{Stdout: `{}`})

		res, err := h.TDEnforcer(context.Background(), event(hook.EventKindPreToolUse,
			`{"tool_name":"Edit","tool_input":{"file_path":"main.go"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.ExitCode()).To(Equal(decision.ExitBlock))
		Expect(res.Decision.Message).To(Equal(td.NoTaskMessage))
	})

	It("allows when td is missing", func() {
		mock.EXPECT().Run(gomock.Any(), root, "td", "--version").
			Return(&execpkg.CommandResult{ExitCode: -1, Err: execpkg.ErrTimeout})

		res, err := h.TDEnforcer(context.Background(), event(hook.EventKindPreToolUse,
			`{"tool_name":"Write","tool_input":{"file_path":"main.go"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.IsBlock()).To(BeFalse())
	})
})
