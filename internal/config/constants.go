package config

// ConfigFileNames are the recognized type declaration file names, in lookup order.
var ConfigFileNames = []string{"jype.yaml", "jype.yml"}

// DefaultStorePath is the sqlite snapshot database used when --db is not given.
const DefaultStorePath = "jype.db"

// Environment variables
const (
	ConfigEnvVar  = "JYPE_CONFIG"
	NoColorEnvVar = "NO_COLOR"
)

// IsTestMode indicates if the program is running under tests.
// Set once at startup; disables terminal detection in the CLI.
var IsTestMode = false

// Well-known host type names
const (
	ObjectTypeName = "java.lang.Object"
	StringTypeName = "java.lang.String"
	AnyMessageName = "google.protobuf.Any"
)

// Array suffix used by the printer and parser
const ArraySuffix = "[]"

// DefaultAliases maps short names accepted by the parser to canonical registry
// names. Primitive names map to themselves so that they round-trip.
var DefaultAliases = map[string]string{
	"boolean": "boolean",
	"byte":    "byte",
	"char":    "char",
	"short":   "short",
	"int":     "int",
	"long":    "long",
	"float":   "float",
	"double":  "double",
	"void":    "void",
	"String":  StringTypeName,
	"Object":  ObjectTypeName,
}
