package configfx

import "reflect"

// Struct tag names recognized by the reflective loader.
const (
	TagConf     = "conf"
	TagRequired = "required"
	TagDefault  = "default"
)

// Separator joins nested keys when flattening env-style sources (A__B__C).
const Separator = "__"

// ConfigItemMeta describes one reflected field of a config struct, plus its
// nested children when the field is itself a struct, slice, or map.
type ConfigItemMeta struct {
	Name            string
	Field           reflect.Value
	Type            reflect.Type
	IsRequired      bool
	HasDefaultValue bool
	DefaultValue    string

	Children []ConfigItemMeta
}

// ConfigResource populates (merges into) a flattened string-keyed map.
type ConfigResource func(target *map[string]any) error

// ConfigLoader loads a struct's fields from one or more resources.
type ConfigLoader interface {
	LoadMeta(i any) (ConfigItemMeta, error)
	LoadMap(resources ...ConfigResource) (*map[string]any, error)
	Load(i any, resources ...ConfigResource) error
	LoadDefaults(i any) error
}
