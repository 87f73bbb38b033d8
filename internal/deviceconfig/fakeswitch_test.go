package deviceconfig

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeVlan is one VLAN held by fakeSwitch.
type fakeVlan struct {
	vid      int
	name     string
	tagged   uint64
	untagged uint64
}

// fakeSwitch is an httptest server speaking the Easy Smart web protocol
// closely enough for the client: login, logout, the read pages, and the
// write actions, all backed by in-memory state.
type fakeSwitch struct {
	t *testing.T

	mu        sync.Mutex
	username  string
	password  string
	loggedIn  bool
	portCount int
	qvlan     bool
	leds      bool
	vlans     []fakeVlan
	pvids     []int
	poeState  []int
	backup    []byte

	// ignoreWrites accepts write actions without changing state.
	ignoreWrites bool
	// failPaths maps a path to the number of 500 responses still to send.
	failPaths map[string]int
	// requests records "METHOD path?query" for every request.
	requests []string
	logins   int
	logouts  int

	server *httptest.Server
}

func newFakeSwitch(t *testing.T) *fakeSwitch {
	t.Helper()
	f := &fakeSwitch{
		t:         t,
		username:  "admin",
		password:  "secret",
		portCount: 8,
		qvlan:     true,
		leds:      true,
		vlans: []fakeVlan{
			{vid: 1, name: "Default_VLAN", untagged: 0xfb},
			{vid: 5, name: "eng", tagged: 0x4, untagged: 0x3},
		},
		pvids:     []int{5, 5, 1, 1, 1, 1, 1, 1},
		poeState:  []int{1, 1, 0, 0},
		backup:    []byte{0x01, 0x02, 0xfe, 0xff},
		failPaths: map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// client returns a client for the fake with fast retries.
func (f *fakeSwitch) client() *Client {
	c := NewClientWithURL(f.server.URL)
	c.SetAuth(f.username, f.password)
	c.SetRetry(2, time.Millisecond)
	c.MaxRetryDelay = 5 * time.Millisecond
	return c
}

func (f *fakeSwitch) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// writes returns the recorded write actions, in order.
func (f *fakeSwitch) writes() []string {
	var out []string
	for _, r := range f.requestLog() {
		if strings.Contains(r, ".cgi?") && !strings.Contains(r, "logon.cgi") {
			out = append(out, strings.TrimPrefix(r, "GET /"))
		}
	}
	return out
}

func (f *fakeSwitch) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	entry := r.Method + " /" + path
	if r.URL.RawQuery != "" {
		entry += "?" + r.URL.RawQuery
	}
	f.requests = append(f.requests, entry)

	if n := f.failPaths[path]; n > 0 {
		f.failPaths[path] = n - 1
		http.Error(w, "busy", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	switch path {
	case PathLogin:
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			http.Error(w, "bad login request", http.StatusBadRequest)
			return
		}
		f.logins++
		if q.Get("username") == f.username && q.Get("password") == f.password {
			f.loggedIn = true
			fmt.Fprint(w, "<script>\nvar logonInfo = new Array(\n0,\n0,0);\n</script>")
			return
		}
		fmt.Fprint(w, "<script>\nvar logonInfo = new Array(\n1,\n0,0);\n</script>")
		return

	case PathLogout:
		f.logouts++
		f.loggedIn = false
		fmt.Fprint(w, "<html>bye</html>")
		return
	}

	if !f.loggedIn {
		// The real switch serves its login page instead of an error.
		fmt.Fprint(w, "<html><title>Login</title></html>")
		return
	}

	switch path {
	case PathVlanTable:
		fmt.Fprint(w, f.vlanPage())

	case PathPvidTable:
		fmt.Fprintf(w, "<script>\nvar pvid_ds = {\npvids:[%s],\nlagIds:[0]\n};\n</script>", joinInts(f.pvids, "%d"))

	case PathLED:
		fmt.Fprintf(w, "<script>var led = %s;</script>", flag(f.leds))

	case PathPoe:
		fmt.Fprint(w, f.poePage())

	case PathSystemInfo:
		fmt.Fprint(w, "<script>\nvar info_ds = {\ndescriStr:[\n\"TL-SG108E\"\n],\nmacStr:[\n\"50:C7:BF:00:11:22\"\n],\n"+
			"ipStr:[\n\"192.168.0.1\"\n],\nnetmaskStr:[\n\"255.255.255.0\"\n]\n};\n</script>")

	case PathBackup:
		_, _ = w.Write(f.backup)

	case PathVlanSet:
		if q.Has("qvlan_en") {
			f.write(func() { f.qvlan = q.Get("qvlan_en") == "1" })
		} else {
			f.write(func() { f.setVlan(q.Get("vid"), q.Get("vname"), r.URL.RawQuery) })
		}
		fmt.Fprint(w, f.vlanPage())

	case PathPvidSet:
		f.write(func() {
			mask, _ := strconv.ParseUint(q.Get("pbm"), 10, 64)
			vid, _ := strconv.Atoi(q.Get("pvid"))
			for p := 1; p <= f.portCount; p++ {
				if mask&(1<<(p-1)) != 0 {
					f.pvids[p-1] = vid
				}
			}
		})
		fmt.Fprint(w, "ok")

	case PathLEDSet:
		f.write(func() { f.leds = q.Get("rd_led") == "1" })
		fmt.Fprintf(w, "<script>var led = %s;</script>", flag(f.leds))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSwitch) write(apply func()) {
	if !f.ignoreWrites {
		apply()
	}
}

func (f *fakeSwitch) setVlan(vidText, name, rawQuery string) {
	vid, err := strconv.Atoi(vidText)
	if err != nil {
		f.t.Errorf("fake switch: bad vid %q", vidText)
		return
	}

	// Check the parameter order the firmware expects.
	if !strings.HasPrefix(rawQuery, "vid=") || !strings.HasSuffix(rawQuery, "&qvlan_add=Add%2FModify") {
		f.t.Errorf("fake switch: unexpected qvlanSet query %q", rawQuery)
	}

	v := fakeVlan{vid: vid, name: name}
	for p := 1; p <= f.portCount; p++ {
		idx := strings.Index(rawQuery, fmt.Sprintf("&selType_%d=", p))
		if idx < 0 {
			f.t.Errorf("fake switch: selType_%d missing", p)
			return
		}
		code := rawQuery[idx+len(fmt.Sprintf("&selType_%d=", p))]
		switch code {
		case '0':
			v.untagged |= 1 << (p - 1)
		case '1':
			v.tagged |= 1 << (p - 1)
		}
	}

	for i := range f.vlans {
		if f.vlans[i].vid == vid {
			f.vlans[i] = v
			return
		}
	}
	f.vlans = append(f.vlans, v)
}

func (f *fakeSwitch) vlanPage() string {
	var vids, names, tagged, untagged []string
	for _, v := range f.vlans {
		vids = append(vids, strconv.Itoa(v.vid))
		names = append(names, "'"+v.name+"'")
		tagged = append(tagged, fmt.Sprintf("0x%x", v.tagged))
		untagged = append(untagged, fmt.Sprintf("0x%x", v.untagged))
	}
	return fmt.Sprintf("<script type=\"text/javascript\">\nvar qvlan_ds = {\nstate:%s,\nportNum:%d,\nvids:[%s],\ncount:%d,\n"+
		"maxVids:32,\nnames:[%s],\ntagMbrs:[%s],\nuntagMbrs:[%s],\nlagIds:[0],\nlagMbrs:[0]\n};\n</script>",
		flag(f.qvlan), f.portCount, strings.Join(vids, ","), len(f.vlans),
		strings.Join(names, ","), strings.Join(tagged, ","), strings.Join(untagged, ","))
}

func (f *fakeSwitch) poePage() string {
	n := len(f.poeState)
	zeros := make([]int, n)
	limits := make([]int, n)
	for i := range limits {
		limits[i] = 300
	}
	return fmt.Sprintf("<script>\nvar portConfig = {\nstate:[%s],\npriority:[%s],\npowerlimit:[%s],\npower:[%s],\n"+
		"current:[%s],\nvoltage:[%s],\npdclass:[%s],\npowerstatus:[%s]\n};\nvar globalConfig = {\n"+
		"system_power_limit:640,\nsystem_power_limit_min:10,\nsystem_power_limit_max:650,\nsystem_power_consumption:0,\nunit:1\n};\n</script>",
		joinInts(f.poeState, "%d"), joinInts(zeros, "%d"), joinInts(limits, "%d"), joinInts(zeros, "%d"),
		joinInts(zeros, "%d"), joinInts(zeros, "%d"), joinInts(zeros, "%d"), joinInts(zeros, "%d"))
}

func joinInts(values []int, format string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, ",")
}

func (f *fakeSwitch) logoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *fakeSwitch) set(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}
