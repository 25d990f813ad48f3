package parser_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/claude-hooks/internal/parser"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

func parse(input string, kind hook.EventKind) (*hook.Event, error) {
	return parser.NewJSONParser(strings.NewReader(input)).Parse(kind)
}

var _ = Describe("JSONParser", func() {
	It("parses tool events", func() {
		ev, err := parse(`{
			"session_id": "d267099c",
			"tool_use_id": "toolu_012",
			"transcript_path": "/tmp/session.jsonl",
			"tool_name": "Bash",
			"tool_input": {"command": "git status"}
		}`, hook.EventKindPreToolUse)

		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Kind).To(Equal(hook.EventKindPreToolUse))
		Expect(ev.SessionID).To(Equal("d267099c"))
		Expect(ev.ToolUseID).To(Equal("toolu_012"))
		Expect(ev.TranscriptPath).To(Equal("/tmp/session.jsonl"))
		Expect(ev.IsBash()).To(BeTrue())
		Expect(ev.Command()).To(Equal("git status"))
		Expect(ev.Raw).To(HaveKeyWithValue("session_id", "d267099c"))
		Expect(ev.RawToolInput()).To(HaveKeyWithValue("command", "git status"))
	})

	It("reads payloads of any size", func() {
		content := strings.Repeat("A", 9<<20)

		ev, err := parse(`{"tool_name":"Write","tool_input":{"file_path":"/proj/.env","content":"`+content+`"}}`,
			hook.EventKindPreToolUse)

		Expect(err).NotTo(HaveOccurred())
		Expect(ev.FilePath()).To(Equal("/proj/.env"))
		Expect(ev.RawToolInput()).To(HaveKeyWithValue("content", HaveLen(len(content))))
	})

	It("takes the kind from hook_event_name when not given", func() {
		ev, err := parse(`{"hook_event_name":"SubagentStop","agent_id":"a1"}`, hook.EventKindUnknown)

		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Kind).To(Equal(hook.EventKindSubagentStop))
		Expect(ev.SubagentID).To(Equal("a1"))
	})

	It("falls back to legacy field names", func() {
		ev, err := parse(`{"tool":"Read","type":"idle","content":"hi"}`, hook.EventKindNotification)

		Expect(err).NotTo(HaveOccurred())
		Expect(ev.ToolName).To(Equal("Read"))
		Expect(ev.NotificationType).To(Equal("idle"))
		Expect(ev.Prompt).To(Equal("hi"))
	})

	It("keeps other fields when one field has the wrong type", func() {
		ev, err := parse(`{"session_id": 42, "tool_name": "Write", "tool_input": "oops"}`, hook.EventKindPreToolUse)

		Expect(err).NotTo(HaveOccurred())
		Expect(ev.SessionID).To(BeEmpty())
		Expect(ev.ToolName).To(Equal("Write"))
		Expect(ev.FilePath()).To(BeEmpty())
	})

	DescribeTable("rejects unusable input",
		func(input string, sentinel error) {
			_, err := parse(input, hook.EventKindPreToolUse)
			Expect(errors.Is(err, sentinel)).To(BeTrue(), "got %v", err)
		},
		Entry("empty", "", parser.ErrEmptyInput),
		Entry("whitespace", "  \n", parser.ErrEmptyInput),
		Entry("garbage", "{not json", parser.ErrInvalidJSON),
		Entry("array", "[]", parser.ErrInvalidJSON),
		Entry("null", "null", parser.ErrInvalidJSON),
		Entry("string", `"text"`, parser.ErrInvalidJSON),
	)
})
