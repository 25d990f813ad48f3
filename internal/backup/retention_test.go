package backup_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/claude-hooks/internal/backup"
)

var _ = Describe("Retention", func() {
	var (
		dir string
		now time.Time
	)

	writeAged := func(name string, age time.Duration) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte("x"), 0o600)).To(Succeed())

		ts := now.Add(-age)
		Expect(os.Chtimes(path, ts, ts)).To(Succeed())

		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		now = time.Now().Truncate(time.Second)
	})

	It("validates limits", func() {
		_, err := backup.NewCountRetentionPolicy(0)
		Expect(err).To(MatchError(backup.ErrInvalidMaxBackups))

		_, err = backup.NewAgeRetentionPolicy(-time.Hour)
		Expect(err).To(MatchError(backup.ErrInvalidMaxAge))

		Expect(backup.PolicyFor(0, 0)).To(BeNil())
	})

	It("lists backups newest first and ignores other files", func() {
		old := writeAged("a_1.jsonl", 2*time.Hour)
		recent := writeAged("b_2.jsonl", time.Minute)
		writeAged("notes.txt", 0)

		entries, err := backup.List(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Path).To(Equal(recent))
		Expect(entries[1].Path).To(Equal(old))
	})

	It("returns nothing for a missing directory", func() {
		entries, err := backup.List(filepath.Join(dir, "missing"))

		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("keeps the newest N backups", func() {
		newest := writeAged("c.jsonl", time.Minute)
		middle := writeAged("b.jsonl", time.Hour)
		oldest := writeAged("a.jsonl", 2*time.Hour)

		removed, err := backup.Prune(dir, backup.PolicyFor(2, 0), now)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(ConsistOf(oldest))

		Expect(newest).To(BeAnExistingFile())
		Expect(middle).To(BeAnExistingFile())
		Expect(oldest).NotTo(BeAnExistingFile())
	})

	It("drops backups past the maximum age", func() {
		fresh := writeAged("fresh.jsonl", time.Hour)
		stale := writeAged("stale.jsonl", 48*time.Hour)

		removed, err := backup.Prune(dir, backup.PolicyFor(0, 24*time.Hour), now)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(ConsistOf(stale))
		Expect(fresh).To(BeAnExistingFile())
	})

	It("does nothing without a policy", func() {
		writeAged("a.jsonl", 100*time.Hour)

		removed, err := backup.Prune(dir, nil, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(BeEmpty())
	})
})
