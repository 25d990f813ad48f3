package handlers_test

import (
	"bytes"
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/handlers"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/internal/security"
	"github.com/smykla-skalski/claude-hooks/pkg/config"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

var _ = Describe("SecurityCheck", func() {
	var (
		h   *handlers.Hooks
		ctx context.Context
	)

	BeforeEach(func() {
		h = newHooks(GinkgoT().TempDir())
		ctx = context.Background()
	})

	DescribeTable("blocks recursive forced deletion and records the payload",
		func(command string) {
			ev := event(hook.EventKindPreToolUse,
				`{"session_id":"s1","tool_name":"Bash","tool_input":{"command":"`+command+`"}}`)

			res, err := h.SecurityCheck(ctx, ev)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Decision.ExitCode()).To(Equal(decision.ExitBlock))
			Expect(res.Decision.Message).To(Equal(security.ReasonRecursiveDelete))

			recs := readLog(h, eventlog.FileSecurityBlocks)
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]).To(HaveKeyWithValue("event", "security_block"))
			Expect(recs[0]).To(HaveKeyWithValue("blocked", true))
			Expect(recs[0]).To(HaveKeyWithValue("reason", security.ReasonRecursiveDelete))
			Expect(recs[0]).To(HaveKeyWithValue("session_id", "s1"))
			Expect(recs[0]).To(HaveKeyWithValue("tool_name", "Bash"))
			Expect(recs[0]["tool_input"]).To(HaveKeyWithValue("command", command))
		},
		Entry("short flags", "rm -rf /tmp/x"),
		Entry("long flags", "rm --recursive --force ."),
	)

	It("allows read-only commands on protected paths without logging", func() {
		ev := event(hook.EventKindPreToolUse, `{"tool_name":"Bash","tool_input":{"command":"cat /etc/hosts"}}`)

		res, err := h.SecurityCheck(ctx, ev)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.ExitCode()).To(Equal(decision.ExitAllow))
		Expect(logExists(h, eventlog.FileSecurityBlocks)).To(BeFalse())
	})

	DescribeTable("file access",
		func(path string, blocked bool) {
			ev := event(hook.EventKindPreToolUse, `{"tool_name":"Read","tool_input":{"file_path":"`+path+`"}}`)

			res, err := h.SecurityCheck(ctx, ev)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Decision.IsBlock()).To(Equal(blocked))
		},
		Entry(".env", "/app/.env", true),
		Entry(".env.example", "/app/.env.example", false),
		Entry("key", "/app/server.key", true),
		Entry("source", "/app/main.go", false),
	)

	It("applies configured rules and skips invalid ones", func() {
		cfg := &config.Config{Security: &config.SecurityConfig{
			ExtraRmPatterns: []string{"(unclosed", `shred\s+`},
			FileRules:       []config.FileRuleConfig{{Glob: "**/secrets/**", Reason: "secrets"}},
		}}
		h = newHooks(GinkgoT().TempDir(), handlers.WithConfig(cfg))

		res, err := h.SecurityCheck(ctx, event(hook.EventKindPreToolUse,
			`{"tool_name":"Bash","tool_input":{"command":"shred -u notes"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.IsBlock()).To(BeTrue())

		res, err = h.SecurityCheck(ctx, event(hook.EventKindPreToolUse,
			`{"tool_name":"Write","tool_input":{"file_path":"/repo/secrets/db.txt"}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Decision.Message).To(Equal("secrets"))
	})

	It("blocks a protected write whose payload exceeds several megabytes", func() {
		input := `{"tool_name":"Write","tool_input":{"file_path":"/proj/.env","content":"` +
			strings.Repeat("A", 9<<20) + `"}}`

		var stdout, stderr bytes.Buffer

		rn := runner.New(
			runner.WithStdin(strings.NewReader(input)),
			runner.WithStdout(&stdout),
			runner.WithStderr(&stderr),
		)

		code := rn.Run(ctx, "security-check", hook.EventKindPreToolUse, h.SecurityCheck)
		Expect(code).To(Equal(decision.ExitBlock))
		Expect(stderr.String()).NotTo(ContainSubstring("hook error"))
		Expect(readLog(h, eventlog.FileSecurityBlocks)).To(HaveLen(1))
	})
})
