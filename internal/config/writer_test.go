package config_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/smykla-skalski/claude-hooks/internal/config"
)

var _ = Describe("Writer", func() {
	var (
		root   string
		writer *internalconfig.Writer
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		writer = internalconfig.NewWriter(root)
	})

	It("writes a config the loader reads back", func() {
		cfg := internalconfig.Defaults()
		cfg.Idle.Window = 7

		path, err := writer.InitProject(cfg, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(writer.ProjectConfigPath()))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("#:schema ./hooks.schema.json\n"))
		Expect(string(data)).To(ContainSubstring("window = 7"))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(internalconfig.ConfigFileMode)))

		Expect(writer.SchemaPath()).To(BeAnExistingFile())

		loaded, err := internalconfig.NewKoanfLoaderWithDirs(GinkgoT().TempDir(), root).Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Idle.Window).To(Equal(7))
		Expect(loaded.Git.Timeout).To(Equal(cfg.Git.Timeout))
	})

	It("refuses to overwrite without force", func() {
		_, err := writer.InitProject(internalconfig.Defaults(), false)
		Expect(err).NotTo(HaveOccurred())

		_, err = writer.InitProject(internalconfig.Defaults(), false)
		Expect(err).To(MatchError(internalconfig.ErrConfigExists))

		_, err = writer.InitProject(internalconfig.Defaults(), true)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a nil config", func() {
		Expect(writer.WriteFile(writer.ProjectConfigPath(), nil)).To(MatchError(internalconfig.ErrInvalidConfig))
	})
})
