package deviceconfig

import (
	"encoding/base64"
	"strings"

	"github.com/essctl/essctl/internal/decoder"
)

// DeviceInfo is the decoded system information page (info_ds).
type DeviceInfo struct {
	Description string `yaml:"description" json:"description"`
	MAC         string `yaml:"mac" json:"mac"`
	IP          string `yaml:"ip" json:"ip"`
	Netmask     string `yaml:"netmask" json:"netmask"`
}

// InfoFromFields builds a DeviceInfo from decoded info_ds fields. Each field
// is a one-element string list on the page.
func InfoFromFields(f decoder.Fields) (DeviceInfo, error) {
	var info DeviceInfo
	targets := []struct {
		field string
		dst   *string
	}{
		{"descriStr", &info.Description},
		{"macStr", &info.MAC},
		{"ipStr", &info.IP},
		{"netmaskStr", &info.Netmask},
	}
	for _, t := range targets {
		values, err := f.Strings(t.field)
		if err != nil {
			return DeviceInfo{}, err
		}
		*t.dst = strings.TrimSpace(strings.Join(values, ","))
	}
	return info, nil
}

// Backup is a configuration file downloaded from config_back.cgi.
type Backup struct {
	Raw []byte
}

// Base64 returns the backup in the encoding used to store it as text.
func (b Backup) Base64() string {
	return base64.StdEncoding.EncodeToString(b.Raw)
}

// ResultDiff holds YAML renderings of the state before and after a change.
type ResultDiff struct {
	Before string `yaml:"before" json:"before"`
	After  string `yaml:"after" json:"after"`
}

// Result reports the outcome of bringing one setting to its desired state.
type Result struct {
	Changed bool        `yaml:"changed" json:"changed"`
	Diff    *ResultDiff `yaml:"diff,omitempty" json:"diff,omitempty"`
	Failed  bool        `yaml:"failed" json:"failed"`
	Msg     string      `yaml:"msg,omitempty" json:"msg,omitempty"`
}
