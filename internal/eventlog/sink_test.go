package eventlog_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

func readLines(path string) []map[string]any {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())

	var out []map[string]any

	for _, line := range bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n")) {
		var rec map[string]any
		Expect(json.Unmarshal(line, &rec)).To(Succeed())

		out = append(out, rec)
	}

	return out
}

var _ = Describe("Sink", func() {
	var (
		dir  string
		sink *eventlog.Sink
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		sink = eventlog.NewSink()
	})

	Describe("Append", func() {
		It("writes exactly one line with event and timestamp on a fresh path", func() {
			path := filepath.Join(dir, "logs", "nested", "x.jsonl")

			sink.Append(path, eventlog.Record{"event": "x"})

			lines := readLines(path)
			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(HaveKeyWithValue("event", "x"))
			Expect(lines[0]["timestamp"]).To(BeAssignableToTypeOf(""))
			Expect(lines[0]["timestamp"]).NotTo(BeEmpty())
			Expect(lines[0]["record_id"]).NotTo(BeEmpty())
		})

		It("keeps a supplied timestamp and does not mutate the input", func() {
			path := filepath.Join(dir, "x.jsonl")
			rec := eventlog.Record{"event": "x", "timestamp": "2024-01-01T00:00:00"}

			sink.Append(path, rec)

			Expect(rec).To(HaveLen(2))
			Expect(readLines(path)[0]).To(HaveKeyWithValue("timestamp", "2024-01-01T00:00:00"))
		})

		It("appends without rewriting earlier lines", func() {
			path := filepath.Join(dir, "x.jsonl")

			sink.Append(path, eventlog.Record{"event": "a"})
			sink.Append(path, eventlog.Record{"event": "b"})
			sink.Append(path, eventlog.Record{"event": "a"})

			lines := readLines(path)
			Expect(lines).To(HaveLen(3))
			Expect(lines[1]).To(HaveKeyWithValue("event", "b"))
		})

		It("writes markup characters literally", func() {
			path := filepath.Join(dir, "x.jsonl")

			sink.Append(path, eventlog.Record{"event": "x", "content": "<5 chars> & more"})

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"content":"<5 chars> & more"`))
			Expect(bytes.Count(data, []byte("\n"))).To(Equal(1))
		})

		It("uses the configured clock and id generator", func() {
			fixed := time.Date(2025, 3, 4, 5, 6, 7, 8000, time.UTC)
			sink = eventlog.NewSink(
				eventlog.WithClock(func() time.Time { return fixed }),
				eventlog.WithIDGenerator(func() string { return "id-1" }),
			)
			path := filepath.Join(dir, "x.jsonl")

			sink.Append(path, eventlog.Record{"event": "x"})

			rec := readLines(path)[0]
			Expect(rec).To(HaveKeyWithValue("timestamp", "2025-03-04T05:06:07.000008Z"))
			Expect(rec).To(HaveKeyWithValue("record_id", "id-1"))
		})

		It("swallows I/O failures and reports them to the logger", func() {
			blocker := filepath.Join(dir, "file")
			Expect(os.WriteFile(blocker, []byte("x"), 0o600)).To(Succeed())

			var buf bytes.Buffer
			sink = eventlog.NewSink(eventlog.WithLogger(logger.NewFileLoggerWithWriter(&buf, false, false)))

			Expect(func() {
				sink.Append(filepath.Join(blocker, "sub", "x.jsonl"), eventlog.Record{"event": "x"})
			}).NotTo(Panic())
			Expect(buf.String()).To(ContainSubstring("event log append failed"))
		})

		It("swallows values that cannot be encoded", func() {
			path := filepath.Join(dir, "x.jsonl")

			sink.Append(path, eventlog.Record{"event": "x", "bad": func() {}})

			_, err := os.Stat(path)
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("FindFirst", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(dir, "subagents.jsonl")
			Expect(os.WriteFile(path, []byte(
				`{"event":"subagent_start","subagent_id":"a","timestamp":"t1"}`+"\n"+
					"not json\n"+
					`{"event":"subagent_start","subagent_id":"b","timestamp":"t2"}`+"\n"+
					`{"event":"subagent_start","subagent_id":"b","timestamp":"t3"}`+"\n",
			), 0o600)).To(Succeed())
		})

		It("returns the first matching record and skips bad lines", func() {
			rec, ok := sink.FindFirst(path, func(r eventlog.Record) bool {
				return r.StringField("subagent_id") == "b"
			})

			Expect(ok).To(BeTrue())
			Expect(rec.StringField("timestamp")).To(Equal("t2"))
		})

		It("reports no match", func() {
			_, ok := sink.FindFirst(path, func(r eventlog.Record) bool {
				return r.StringField("subagent_id") == "zzz"
			})

			Expect(ok).To(BeFalse())
		})

		It("treats a missing file as no match", func() {
			_, ok := sink.FindFirst(filepath.Join(dir, "missing.jsonl"), func(eventlog.Record) bool {
				return true
			})

			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Scan", func() {
	It("counts undecodable lines and stops when asked", func() {
		path := filepath.Join(GinkgoT().TempDir(), "x.jsonl")
		Expect(os.WriteFile(path, []byte("{\"event\":\"a\"}\n[1]\n\n{\"event\":\"b\"}\n{\"event\":\"c\"}\n"), 0o600)).To(Succeed())

		var seen []string

		skipped, err := eventlog.Scan(path, func(rec eventlog.Record) bool {
			seen = append(seen, rec.StringField("event"))

			return len(seen) < 2
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(skipped).To(Equal(1))
		Expect(seen).To(Equal([]string{"a", "b"}))
	})

	It("reports a missing file", func() {
		_, err := eventlog.Scan(filepath.Join(GinkgoT().TempDir(), "none.jsonl"), func(eventlog.Record) bool { return true })
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Paths", func() {
	It("resolves defaults under the root", func() {
		p := eventlog.NewPaths("/proj", "", "", "")

		Expect(p.Log(eventlog.FileSubagents)).To(Equal("/proj/.claude/logs/subagents.jsonl"))
		Expect(p.Backups).To(Equal("/proj/.claude/logs/transcript_backups"))
		Expect(p.Data("last_prompt.txt")).To(Equal("/proj/.claude/data/last_prompt.txt"))
	})

	It("honours absolute overrides", func() {
		p := eventlog.NewPaths("/proj", "/var/log/hooks", "data", "/backups")

		Expect(p.LogsDir).To(Equal("/var/log/hooks"))
		Expect(p.DataDir).To(Equal("/proj/data"))
		Expect(p.Backups).To(Equal("/backups"))
	})

	It("prefers the project dir environment variable", func() {
		GinkgoT().Setenv(eventlog.ProjectDirEnv, "/from/env")

		Expect(eventlog.ResolveProjectRoot()).To(Equal("/from/env"))
	})
})
