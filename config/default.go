package config

import (
	"bytes"
	"text/template"

	"dbor/codec"
	"dbor/log"
)

var DefaultConfig = Config{
	LogLevel: log.LevelInfo.String(),
	Decoding: DecodingConfig{
		MaxDepth: codec.DefaultMaxDepth,
		MaxBytes: 0,
	},
}

const defaultFileTemplate = `# dbor Config File

# Sets the log level. Can be one of the following values:
# - error
# - warn
# - info
# - debug
# - trace
log_level = "{{.LogLevel}}"

# Configures the safety limits applied when decoding untrusted streams.
[decoding]
  # Sets the maximum nesting depth accepted before a stream is rejected.
  max_depth = {{.Decoding.MaxDepth}}
  # Sets the maximum announced length of a single byte string. Zero means
  # no limit beyond what the platform can index.
  max_bytes = {{.Decoding.MaxBytes}}
`

// DefaultFileText renders the commented config document that Init writes
// into a fresh home directory.
func DefaultFileText() []byte {
	tmpl, err := template.New("defaultConfig").Parse(defaultFileTemplate)
	if err != nil {
		panic(err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
