package payload

import (
	"github.com/maxbolgarin/lang"
)

const (
	defaultMaxPatchChars  = 500
	defaultServiceVersion = "1.0.0"
)

// defaultCodeExtensions is the fixed allow-list of extensions that count as code.
var defaultCodeExtensions = []string{
	"py", "js", "java", "ts", "go", "cpp", "c", "rb", "php", "cs", "jsx", "tsx",
}

// Config represents payload assembly configuration.
type Config struct {
	// MaxPatchChars bounds the patch forwarded on the on-demand path; the
	// webhook path always forwards the full patch.
	MaxPatchChars  int      `yaml:"max_patch_chars" env:"PAYLOAD_MAX_PATCH_CHARS"`
	ServiceVersion string   `yaml:"service_version" env:"PAYLOAD_SERVICE_VERSION"`
	CodeExtensions []string `yaml:"code_extensions"`
}

func (c *Config) PrepareAndValidate() error {
	c.MaxPatchChars = lang.Check(c.MaxPatchChars, defaultMaxPatchChars)
	c.ServiceVersion = lang.Check(c.ServiceVersion, defaultServiceVersion)
	if len(c.CodeExtensions) == 0 {
		c.CodeExtensions = defaultCodeExtensions
	}
	return nil
}
