package decoder

// Kind says whether a field holds a single value or a bracketed list.
type Kind int

const (
	// KindScalar values run from the anchor to the next ','.
	KindScalar Kind = iota
	// KindList values are written as [a,b,c] and run to the next ']'.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// ElemType is the type of a scalar value or of each list element.
type ElemType int

const (
	TypeNone ElemType = iota
	TypeBool
	TypeInt
	TypeString
)

func (t ElemType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "none"
	}
}

// FieldDecl declares one field of a response type.
type FieldDecl struct {
	Name string
	Kind Kind
	Type ElemType
}

// Schema is the ordered field list of one response type.
type Schema struct {
	Name   string
	Fields []FieldDecl
}

// Response type names as they appear after "var " in the device pages.
const (
	SchemaQVlan        = "qvlan_ds"
	SchemaInfo         = "info_ds"
	SchemaPvid         = "pvid_ds"
	SchemaPortConfig   = "portConfig"
	SchemaGlobalConfig = "globalConfig"
)

func scalar(name string, t ElemType) FieldDecl { return FieldDecl{Name: name, Kind: KindScalar, Type: t} }
func list(name string, t ElemType) FieldDecl   { return FieldDecl{Name: name, Kind: KindList, Type: t} }

// registry is ordered: Classify selects the first schema whose signature
// matches, so the order is part of the behaviour.
var registry = []Schema{
	{
		Name: SchemaQVlan,
		Fields: []FieldDecl{
			scalar("state", TypeBool),
			scalar("portNum", TypeInt),
			list("vids", TypeInt),
			scalar("count", TypeInt),
			scalar("maxVids", TypeInt),
			list("names", TypeString),
			list("tagMbrs", TypeInt),
			list("untagMbrs", TypeInt),
		},
	},
	{
		Name: SchemaInfo,
		Fields: []FieldDecl{
			list("descriStr", TypeString),
			list("macStr", TypeString),
			list("ipStr", TypeString),
			list("netmaskStr", TypeString),
		},
	},
	{
		Name: SchemaPvid,
		Fields: []FieldDecl{
			list("pvids", TypeInt),
		},
	},
	{
		Name: SchemaPortConfig,
		Fields: []FieldDecl{
			list("state", TypeInt),
			list("priority", TypeInt),
			list("powerlimit", TypeInt),
			list("power", TypeInt),
			list("current", TypeInt),
			list("voltage", TypeInt),
			list("pdclass", TypeInt),
			list("powerstatus", TypeInt),
		},
	},
	{
		Name: SchemaGlobalConfig,
		Fields: []FieldDecl{
			scalar("system_power_limit", TypeInt),
			scalar("system_power_limit_min", TypeInt),
			scalar("system_power_limit_max", TypeInt),
			scalar("system_power_consumption", TypeInt),
		},
	},
}

// Lookup returns the schema registered under name.
func Lookup(name string) (Schema, bool) {
	for _, s := range registry {
		if s.Name == name {
			return Schema{Name: s.Name, Fields: append([]FieldDecl(nil), s.Fields...)}, true
		}
	}
	return Schema{}, false
}

// SchemaNames returns the registered response types in registration order.
func SchemaNames() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}
