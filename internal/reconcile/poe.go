package reconcile

import (
	"github.com/essctl/essctl/internal/decoder"
	"github.com/essctl/essctl/internal/ports"
)

// PoePort is one row of the PoE port table, in the firmware's raw units.
type PoePort struct {
	Port        int  `yaml:"port" json:"port"`
	Enabled     bool `yaml:"enabled" json:"enabled"`
	Priority    int  `yaml:"priority" json:"priority"`
	PowerLimit  int  `yaml:"power_limit" json:"power_limit"`
	Power       int  `yaml:"power" json:"power"`
	Current     int  `yaml:"current" json:"current"`
	Voltage     int  `yaml:"voltage" json:"voltage"`
	Class       int  `yaml:"class" json:"class"`
	PowerStatus int  `yaml:"power_status" json:"power_status"`
}

// PoeRecord is the decoded PoE configuration page.
type PoeRecord struct {
	Ports                  []PoePort `yaml:"ports" json:"ports"`
	SystemPowerLimit       int       `yaml:"system_power_limit" json:"system_power_limit"`
	SystemPowerLimitMin    int       `yaml:"system_power_limit_min" json:"system_power_limit_min"`
	SystemPowerLimitMax    int       `yaml:"system_power_limit_max" json:"system_power_limit_max"`
	SystemPowerConsumption int       `yaml:"system_power_consumption" json:"system_power_consumption"`
}

// State returns the ports with PoE enabled.
func (r PoeRecord) State() PoeState {
	enabled := ports.PortSet{}
	for _, p := range r.Ports {
		if p.Enabled {
			enabled = append(enabled, p.Port)
		}
	}
	return PoeState{EnabledPorts: enabled}
}

// PoeFromFields builds a PoeRecord from the merged portConfig and
// globalConfig fields. A port is enabled when its state entry is non-zero.
func PoeFromFields(f decoder.Fields) (PoeRecord, error) {
	columns := []string{"state", "priority", "powerlimit", "power", "current", "voltage", "pdclass", "powerstatus"}
	data := make(map[string][]int, len(columns))
	for _, name := range columns {
		v, err := f.Ints(name)
		if err != nil {
			return PoeRecord{}, err
		}
		data[name] = v
	}

	at := func(name string, i int) int {
		if col := data[name]; i < len(col) {
			return col[i]
		}
		return 0
	}

	var rec PoeRecord
	rec.Ports = make([]PoePort, len(data["state"]))
	for i := range rec.Ports {
		rec.Ports[i] = PoePort{
			Port:        i + 1,
			Enabled:     at("state", i) != 0,
			Priority:    at("priority", i),
			PowerLimit:  at("powerlimit", i),
			Power:       at("power", i),
			Current:     at("current", i),
			Voltage:     at("voltage", i),
			Class:       at("pdclass", i),
			PowerStatus: at("powerstatus", i),
		}
	}

	var err error
	if rec.SystemPowerLimit, err = f.Int("system_power_limit"); err != nil {
		return PoeRecord{}, err
	}
	if rec.SystemPowerLimitMin, err = f.Int("system_power_limit_min"); err != nil {
		return PoeRecord{}, err
	}
	if rec.SystemPowerLimitMax, err = f.Int("system_power_limit_max"); err != nil {
		return PoeRecord{}, err
	}
	if rec.SystemPowerConsumption, err = f.Int("system_power_consumption"); err != nil {
		return PoeRecord{}, err
	}
	return rec, nil
}
