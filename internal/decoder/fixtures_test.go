package decoder

// Page bodies captured from a TL-SG108E (firmware 1.0.0 Build 20171214), trimmed.
const vlanPage = `<!DOCTYPE html>
<html><head><title>802.1Q VLAN</title>
<script type="text/javascript">
var qvlan_ds = {
state:1,
portNum:8,
vids:[1,5,20],
count:3,
maxVids:32,
names:['Default_VLAN','eng','voice'],
tagMbrs:[0x0,0x4,0x80],
untagMbrs:[0xfb,0x3,0x0],
lagIds:[0,0,0,0,0,0,0,0],
lagMbrs:[0,0,0,0,0,0,0,0]
};
var tip = "";
</script>
</head><body></body></html>`

const pvidPage = `<script type="text/javascript">
var pvid_ds = {
pvids:[5,5,1,1,1,1,1,20],
lagIds:[0,0,0,0,0,0,0,0]
};
</script>`

const infoPage = `<script>
var info_ds = {
descriStr:[
"TL-SG108E"
],
macStr:[
"50:C7:BF:00:11:22"
],
ipStr:[
"192.168.0.1"
],
netmaskStr:[
"255.255.255.0"
],
gatewayStr:[
"192.168.0.254"
]
};
</script>`

const poePage = `<script>
var portConfig = {
state:[1,1,0,0],
priority:[0,0,0,2],
powerlimit:[300,300,150,300],
power:[42,0,0,0],
current:[85,0,0,0],
voltage:[530,0,0,0],
pdclass:[2,0,0,0],
powerstatus:[2,0,0,0]
};
var globalConfig = {
system_power_limit:640,
system_power_limit_min:10,
system_power_limit_max:650,
system_power_consumption:42,
unit:1
};
</script>`
