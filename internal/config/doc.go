// Package config provides configuration parsing for fiberdemo.
//
// The configuration is stored in fiber.json in the working directory. A
// missing file is not an error for the CLI, which then runs on defaults;
// Load itself reports it so callers can tell the difference.
//
// # Configuration File Structure
//
//	{
//	  "scheduler": {
//	    "threshold": "1ms",
//	    "frameInterval": "16ms",
//	    "budget": "10ms",
//	    "queueSize": 256
//	  },
//	  "engine": {
//	    "debug": false,
//	    "maxNestedUpdates": 25
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "fiber"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "fiber"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := fiber.NewRoot(adapter, loop, cfg.EngineOptions()...)
package config
