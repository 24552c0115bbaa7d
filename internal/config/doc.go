// Package config loads ripple.yaml.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  readTimeout: 10s
//	  writeTimeout: 10s
//	  pagesDir: pages
//	  liveWriteBuffer: 16
//	render:
//	  pretty: false
//	  indent: "  "
//	metrics:
//	  enabled: true
//	  namespace: ripple
//	  path: /metrics
//	tracing:
//	  tracerName: github.com/vango-dev/ripple
//	export:
//	  dir: dist
//	  bucket: my-site
//	  prefix: v1/
//	  region: eu-west-1
//	log:
//	  level: info
//	  format: text
//
// Every field is optional; missing fields take the defaults applied by New.
// Relative paths are resolved against the file's directory with Resolve.
package config
