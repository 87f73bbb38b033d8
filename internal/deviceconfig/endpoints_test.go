package deviceconfig

import (
	"testing"

	"github.com/essctl/essctl/internal/ports"
)

func TestQueries(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "login",
			got:  LoginQuery("admin", "admin"),
			want: "logon.cgi?username=admin&password=admin&cpassword=&logon=Login",
		},
		{
			name: "login escapes",
			got:  LoginQuery("admin", "p&ss=1"),
			want: "logon.cgi?username=admin&password=p%26ss%3D1&cpassword=&logon=Login",
		},
		{
			name: "vlan set",
			got: VlanSetQuery(5, "eng", []ports.TagCode{
				ports.Untagged, ports.Untagged, ports.Tagged, ports.NotMember,
				ports.NotMember, ports.NotMember, ports.NotMember, ports.NotMember,
			}),
			want: "qvlanSet.cgi?vid=5&vname=eng&selType_1=0&selType_2=0&selType_3=1&selType_4=2" +
				"&selType_5=2&selType_6=2&selType_7=2&selType_8=2&qvlan_add=Add%2FModify",
		},
		{
			name: "vlan set escapes name",
			got:  VlanSetQuery(7, "guest wifi", []ports.TagCode{ports.Tagged}),
			want: "qvlanSet.cgi?vid=7&vname=guest+wifi&selType_1=1&qvlan_add=Add%2FModify",
		},
		{
			name: "pvid set",
			got:  PvidSetQuery(5, 3),
			want: "vlanPvidSet.cgi?pbm=3&pvid=5",
		},
		{"led on", LEDQuery(true), "led_on_set.cgi?rd_led=1&led_cfg=Apply"},
		{"led off", LEDQuery(false), "led_on_set.cgi?rd_led=0&led_cfg=Apply"},
		{"qvlan on", QVlanQuery(true), "qvlanSet.cgi?qvlan_en=1&qvlan_mode=Apply"},
		{"qvlan off", QVlanQuery(false), "qvlanSet.cgi?qvlan_en=0&qvlan_mode=Apply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
