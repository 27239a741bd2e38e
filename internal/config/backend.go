package config

// ConfigBackend abstracts persistent config storage. Keys are dotted
// "section.name" paths matching the specs table. The default is a JSON file
// under $XDG_CONFIG_HOME.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetFloat(key string) (val float64, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetFloat(key string, val float64) error
}
