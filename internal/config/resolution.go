package config

import "os"

// Flags holds CLI overrides. Empty strings and nil slices mean "not set".
type Flags struct {
	ResultDir   string
	Annotations string
	HistoryDB   string
	TestGroup   string
	Theme       string
	MailTo      []string
	MailFrom    string
	SMTPAddr    string
	NoColor     bool
	NoColorSet  bool
	Debug       bool
}

// Resolve applies environment variables and then flags on top of appCfg and
// returns the result. appCfg itself is not modified.
func Resolve(appCfg *AppConfig, flags Flags) *AppConfig {
	out := *appCfg
	out.Email.To = append([]string(nil), appCfg.Email.To...)

	if v := os.Getenv("LTA_RESULT_DIR"); v != "" {
		out.ResultDir = v
	}
	if v := os.Getenv("LTA_TEST_GROUP"); v != "" {
		out.TestGroup = v
	}
	if os.Getenv("NO_COLOR") != "" {
		out.NoColor = true
	}

	if flags.ResultDir != "" {
		out.ResultDir = flags.ResultDir
	}
	if flags.Annotations != "" {
		out.Annotations = flags.Annotations
	}
	if flags.HistoryDB != "" {
		out.HistoryDB = flags.HistoryDB
	}
	if flags.TestGroup != "" {
		out.TestGroup = flags.TestGroup
	}
	if flags.Theme != "" {
		out.Theme = flags.Theme
	}
	if len(flags.MailTo) > 0 {
		out.Email.To = flags.MailTo
	}
	if flags.MailFrom != "" {
		out.Email.From = flags.MailFrom
	}
	if flags.SMTPAddr != "" {
		out.Email.SMTPAddr = flags.SMTPAddr
	}
	if flags.NoColorSet {
		out.NoColor = flags.NoColor
	}
	if flags.Debug {
		out.Debug = true
	}
	return &out
}
