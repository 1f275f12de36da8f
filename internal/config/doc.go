// Package config provides configuration parsing for fiberctl.
//
// The configuration is stored in fiber.json. Missing fields take their
// defaults; Load validates the result.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "fiber"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracerName": "github.com/vango-dev/fiber"
//	  },
//	  "devtools": {
//	    "listen": "localhost:7070",
//	    "history": 50
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := fiber.NewReconciler(hosts, cfg.ReconcilerOptions(os.Stderr)...)
package config
