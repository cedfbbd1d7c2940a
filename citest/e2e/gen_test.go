package e2e_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/coto-cli/coto/internal/prompt"
	"github.com/coto-cli/coto/internal/resolve"
	"github.com/coto-cli/coto/pkg/types"
)

var _ = Describe("gen", func() {
	var (
		dir string
		c   *cli
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		c = newCLI(dir)
		api.Reset()
	})

	Describe("dry run", func() {
		It("prints the payload without contacting the API", func() {
			c.env["OPENAI_API_KEY"] = "sk-env"

			res := c.run("gen", "--endpoint", api.URL(), "--dry-run", "-p", "list s3 buckets")
			Expect(res.err).NotTo(HaveOccurred())
			Expect(api.Requests()).To(BeEmpty())

			var payload types.Payload
			Expect(json.Unmarshal([]byte(res.stdout), &payload)).To(Succeed())
			Expect(payload.Model).To(Equal(resolve.DefaultModel))
			Expect(payload.Input).To(Equal([]types.Message{
				{Role: types.RoleSystem, Content: prompt.BaseInstruction},
				{Role: types.RoleUser, Content: "list s3 buckets"},
			}))
		})
	})

	Describe("responses API", func() {
		BeforeEach(func() {
			Expect(c.run("config", "openai-key", "sk-stored").err).NotTo(HaveOccurred())
			Expect(c.run("config", "set", "endpoint", api.URL()).err).NotTo(HaveOccurred())
		})

		It("prints the extracted code", func() {
			api.ReplyWithCode("import boto3\nprint(boto3.client('s3').list_buckets())")

			res := c.run("gen", "list s3 buckets")
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.stdout).To(Equal("import boto3\nprint(boto3.client('s3').list_buckets())\n"))

			reqs := api.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Path).To(Equal("/v1/responses"))
			Expect(reqs[0].Header.Get("Authorization")).To(Equal("Bearer sk-stored"))
		})

		It("sends stored profile and region hints in order", func() {
			Expect(c.run("config", "default-profile", "ops").err).NotTo(HaveOccurred())
			Expect(c.run("config", "default-region", "us-west-2").err).NotTo(HaveOccurred())

			Expect(c.run("gen", "list s3 buckets").err).NotTo(HaveOccurred())

			reqs := api.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].SystemMessage()).To(Equal(prompt.SystemInstruction("ops", "us-west-2")))
			Expect(reqs[0].UserMessage()).To(Equal("list s3 buckets"))
		})

		It("writes the code to a file", func() {
			out := filepath.Join(dir, "snippet.py")

			res := c.run("gen", "-o", out, "list s3 buckets")
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.stdout).To(BeEmpty())

			data, err := os.ReadFile(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("print(1)"))
		})

		It("fails with an I/O error when the output directory is missing", func() {
			res := c.run("gen", "-o", filepath.Join(dir, "missing", "snippet.py"), "x")
			Expect(res.err).To(HaveOccurred())
			Expect(types.KindOf(res.err)).To(Equal(types.KindIO))
		})

		DescribeTable("rejects replies that break the schema",
			func(text string) {
				api.ReplyWithText(text)
				out := filepath.Join(dir, "snippet.py")

				res := c.run("gen", "-o", out, "list s3 buckets")
				Expect(res.err).To(HaveOccurred())
				Expect(types.KindOf(res.err)).To(Equal(types.KindSchema))
				Expect(res.stderr).To(ContainSubstring("output schema"))
				Expect(out).NotTo(BeAnExistingFile())
			},
			Entry("free text", "not json"),
			Entry("wrong key", `{"wrong": "x"}`),
			Entry("extra key", `{"code": "x", "note": "y"}`),
		)

		It("surfaces API failures without retrying", func() {
			api.ReplyWithStatus(http.StatusInternalServerError, `{"error":{"message":"upstream exploded"}}`)

			res := c.run("gen", "list s3 buckets")
			Expect(res.err).To(HaveOccurred())
			Expect(types.KindOf(res.err)).To(Equal(types.KindTransport))
			Expect(res.stderr).To(ContainSubstring("upstream exploded"))
			Expect(api.Requests()).To(HaveLen(1))
		})
	})

	Describe("chat API", func() {
		It("extracts code from a chat completion", func() {
			c.env["OPENAI_API_KEY"] = "sk-env"
			api.ReplyWithCode("print('chat')")

			res := c.run("gen", "--api", "chat", "--endpoint", api.URL(), "-m", "gpt-4o-mini", "hello")
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.stdout).To(Equal("print('chat')\n"))

			reqs := api.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Path).To(Equal("/v1/chat/completions"))
			Expect(reqs[0].Body["model"]).To(Equal("gpt-4o-mini"))
			Expect(reqs[0].UserMessage()).To(Equal("hello"))
		})
	})

	Describe("missing inputs", func() {
		It("reports a missing credential with remediation", func() {
			res := c.run("gen", "list s3 buckets")
			Expect(res.err).To(MatchError(resolve.ErrMissingCredential))
			Expect(res.stderr).To(ContainSubstring("coto config openai-key"))
		})

		It("reports a missing prompt", func() {
			c.env["OPENAI_API_KEY"] = "sk-env"
			res := c.run("gen")
			Expect(res.err).To(MatchError(resolve.ErrMissingPrompt))
		})
	})

	Describe("live", func() {
		It("generates a snippet from the real API", func() {
			key := liveKey()
			if key == "" {
				Skip("set COTO_LIVE_TEST and OPENAI_API_KEY to run")
			}
			c.env["OPENAI_API_KEY"] = key

			res := c.run("gen", "list s3 buckets")
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.stdout).To(ContainSubstring("boto3"))
		})
	})
})
