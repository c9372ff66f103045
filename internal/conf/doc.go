// Package conf implements a self-healing store for typed settings.
//
// # Usage
//
// A settings type describes itself with an explicit member table:
//
//	type Settings struct {
//	    LogsPath string
//	    Timeout  time.Duration
//	}
//
//	func (s *Settings) Schema() *conf.Schema {
//	    return conf.MustSchema("settings", s.SetDefaults,
//	        conf.Field("LogsPath", &s.LogsPath),
//	        conf.Field("Timeout", &s.Timeout, conf.Convert("duration")),
//	    )
//	}
//
//	store := conf.NewStore(conf.NewConverters(), log)
//	store.Load(s.Schema(), "config/settings.json")
//
// # Recovery
//
// Load never fails. Missing, empty, null, malformed and unrecognized
// documents are regenerated from the schema's defaults and written back. A
// document lacking only some members keeps the prior values of those members
// and is left on disk as is.
//
// # Internal Architecture
//
//   - Member: descriptor built once with Field or Property. Wire names are
//     derived with SnakeCase unless overridden with WireName.
//
//   - Converters: lazily populated cache of custom converters, shared by
//     every schema and by both Load and Save.
//
//   - Store: Load, Save and Regenerate. Documents are decoded in full
//     before any member is assigned, so a failed load never partially
//     applies.
package conf
