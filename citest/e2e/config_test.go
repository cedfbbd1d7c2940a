package e2e_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("config and setup", func() {
	var (
		dir string
		c   *cli
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		c = newCLI(dir)
	})

	It("persists settings as TOML in the config directory", func() {
		Expect(c.run("config", "openai-key", "sk-abcdefgwxyz").err).NotTo(HaveOccurred())
		Expect(c.run("config", "model", "gpt-4o").err).NotTo(HaveOccurred())

		data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`model = "gpt-4o"`))

		info, err := os.Stat(filepath.Join(dir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))

		res := c.run("config", "show")
		Expect(res.err).NotTo(HaveOccurred())
		Expect(res.stdout).To(ContainSubstring(`openai_key = "sk-*******wxyz"`))
	})

	It("runs the setup wizard from scripted input", func() {
		c.stdin = "sk-wizard\nn\ny\neu-west-1\ngpt-4.1\ny\n"

		res := c.run("setup")
		Expect(res.err).NotTo(HaveOccurred())
		Expect(res.stdout).To(ContainSubstring("Configuration saved."))

		res = c.run("config", "show", "--show-secrets")
		Expect(res.stdout).To(ContainSubstring(`openai_key = "sk-wizard"`))
		Expect(res.stdout).To(ContainSubstring(`default_region = "eu-west-1"`))
		Expect(res.stdout).To(ContainSubstring(`model = "gpt-4.1"`))
		Expect(res.stdout).NotTo(ContainSubstring("default_profile"))
	})
})
