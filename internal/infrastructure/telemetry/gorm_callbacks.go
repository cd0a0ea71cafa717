package telemetry

import (
	"gorm.io/gorm"
)

// registrar is the Register half of a positioned gorm callback
type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// gormChains positions hooks around the core callback of each chain
var gormChains = []struct {
	name  string
	hooks func(db *gorm.DB) (before, after registrar)
}{
	{"create", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Create()
		return p.Before("gorm:create"), p.After("gorm:create")
	}},
	{"query", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Query()
		return p.Before("gorm:query"), p.After("gorm:query")
	}},
	{"update", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Update()
		return p.Before("gorm:update"), p.After("gorm:update")
	}},
	{"delete", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Delete()
		return p.Before("gorm:delete"), p.After("gorm:delete")
	}},
	{"row", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Row()
		return p.Before("gorm:row"), p.After("gorm:row")
	}},
	{"raw", func(db *gorm.DB) (registrar, registrar) {
		p := db.Callback().Raw()
		return p.Before("gorm:raw"), p.After("gorm:raw")
	}},
}

// registerAround installs before and after on every chain under prefix.
// after receives the chain name, e.g. "query". Hooks registered earlier run
// first among the after callbacks of a chain.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(*gorm.DB, string)) error {
	for _, c := range gormChains {
		b, a := c.hooks(db)
		if before != nil {
			if err := b.Register(prefix+":before_"+c.name, before); err != nil {
				return err
			}
		}
		if after != nil {
			op := c.name
			if err := a.Register(prefix+":after_"+c.name, func(tx *gorm.DB) { after(tx, op) }); err != nil {
				return err
			}
		}
	}
	return nil
}
