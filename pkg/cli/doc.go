// Package cli implements the skytap-facts command-line interface.
//
// # Overview
//
// skytap-facts runs inside a Skytap VM. It reads the VM's description from the
// metadata service and emits it as namespaced Facter facts.
//
// collect - Fetch metadata and emit facts (default when no command is given):
//
//	skytap-facts [--endpoint gateway|link-local] [--host ip] [--facts-file path]
//
// history - Print the VM id history without contacting the metadata service:
//
//	skytap-facts history [--history-file path]
//
// version - Print version information:
//
//	skytap-facts version
//
// # Flags
//
//	--endpoint        gateway (default) or link-local
//	--host            Metadata service IPv4 address, overrides --endpoint
//	--route-file      Routing table for gateway lookup (default /proc/net/route)
//	--stdout          Print facts to stdout (default true)
//	--format, -t      Stdout format: kv, json, yaml (default kv)
//	--facts-file      Also write facts to this file; .json, .yaml or .txt
//	--record-history  Append the VM id to --history-file and print the history
//	--history-file    VM id history (default /var/log/skytap-history.log)
//	--roles-file      Role assignment file to toggle
//	--metrics-file    Prometheus textfile for node_exporter
//	--timeout         Metadata request timeout (default 30s)
//	--log-level       debug, info, warn, error (default warn)
//
// Every flag can also be set through SKYTAP_FACTS_<FLAG>, e.g.
// SKYTAP_FACTS_FACTS_FILE. LOG_LEVEL is honored as well.
//
// # Output Formats
//
// kv (default):
//   - One key=value line per fact, sorted by key
//   - The format Facter expects from executable external facts
//
// JSON:
//   - Indented object, composite values kept structured
//   - The format Facter expects in facts.d/*.json
//
// YAML:
//   - Human-readable
//
// # Exit Codes
//
//	0  Success
//	1  Any error (invalid gateway, non-200 response, wrong content type,
//	   unwritable output)
package cli
