package deviceconfig

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/essctl/essctl/internal/ports"
)

// Pages and actions of the Easy Smart web interface. The firmware matches
// query parameters positionally in places, so queries are built by hand in
// the order the web UI sends them.
const (
	PathLogin       = "logon.cgi"
	PathLogout      = "Logout.htm"
	PathVlanTable   = "Vlan8021QRpm.htm"
	PathPvidTable   = "Vlan8021QPvidRpm.htm"
	PathLED         = "TurnOnLEDRpm.htm"
	PathPoe         = "PoeConfigRpm.htm"
	PathSystemInfo  = "SystemInfoRpm.htm"
	PathBackup      = "config_back.cgi"
	PathVlanSet     = "qvlanSet.cgi"
	PathPvidSet     = "vlanPvidSet.cgi"
	PathLEDSet      = "led_on_set.cgi"
	loginSuccessTag = "var logonInfo = new Array(\n0,\n0,0)"
)

// LoginQuery builds the login action path.
func LoginQuery(username, password string) string {
	return fmt.Sprintf("%s?username=%s&password=%s&cpassword=&logon=Login",
		PathLogin, url.QueryEscape(username), url.QueryEscape(password))
}

// VlanSetQuery builds the VLAN add/modify action: one selType_N parameter
// per port, in port order.
func VlanSetQuery(vid int, name string, codes []ports.TagCode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?vid=%d&vname=%s", PathVlanSet, vid, url.QueryEscape(name))
	for i, c := range codes {
		fmt.Fprintf(&b, "&selType_%d=%d", i+1, int(c))
	}
	b.WriteString("&qvlan_add=Add%2FModify")
	return b.String()
}

// PvidSetQuery builds the action assigning vid as the primary VLAN of the
// ports in mask.
func PvidSetQuery(vid int, mask uint64) string {
	return fmt.Sprintf("%s?pbm=%d&pvid=%d", PathPvidSet, mask, vid)
}

// LEDQuery builds the port LED on/off action.
func LEDQuery(on bool) string {
	return fmt.Sprintf("%s?rd_led=%s&led_cfg=Apply", PathLEDSet, flag(on))
}

// QVlanQuery builds the 802.1Q VLAN mode on/off action.
func QVlanQuery(enabled bool) string {
	return fmt.Sprintf("%s?qvlan_en=%s&qvlan_mode=Apply", PathVlanSet, flag(enabled))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// pathOnly strips the query from a request path, for error messages.
func pathOnly(p string) string {
	base, _, _ := strings.Cut(p, "?")
	return base
}

