package hrcpresolve

const (
	FormatDZN  = "dzn"
	FormatOPB  = "opb"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Config struct {
	MaxBlockingPairs *int   `json:"maxBlockingPairs,omitempty"`
	Presolve         *bool  `json:"presolve,omitempty"`
	Format           string `json:"format,omitempty"`
	LogLevel         string `json:"logLevel,omitempty"`
}

func (c *Config) PresolveEnabled() bool {
	return c.Presolve == nil || *c.Presolve
}
