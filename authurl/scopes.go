package authurl

// AllScopes is the full catalog of registered scopes, in registration
// order. Order matters: count-limit probing tests prefixes of this
// list, so reordering changes which scope sets get tested.
var AllScopes = []string{
	"offline_access",
	"user:read",
	"account:read",
	"access:read",
	"access:write",
	"workers:read",
	"workers:write",
	"workers_scripts:write",
	"workers_kv:write",
	"workers_routes:write",
	"workers_tail:read",
	"workers_builds:read",
	"workers_builds:write",
	"workers_observability:read",
	"workers_observability:write",
	"workers_observability_telemetry:write",
	"pages:read",
	"pages:write",
	"d1:write",
	"ai:read",
	"ai:write",
	"aig:read",
	"aig:write",
	"agw:read",
	"agw:run",
	"agw:write",
	"aiaudit:read",
	"aiaudit:write",
	"ai-search:read",
	"ai-search:write",
	"ai-search:run",
	"rag:read",
	"rag:write",
	"dns_records:read",
	"dns_records:edit",
	"dns_settings:read",
	"dns_analytics:read",
	"zone:read",
	"logpush:read",
	"logpush:write",
	"auditlogs:read",
	"ssl_certs:write",
	"lb:read",
	"lb:edit",
	"notification:read",
	"notification:write",
	"queues:write",
	"pipelines:read",
	"pipelines:setup",
	"pipelines:write",
	"r2_catalog:write",
	"vectorize:write",
	"query_cache:write",
	"secrets_store:read",
	"secrets_store:write",
	"browser:read",
	"browser:write",
	"containers:write",
	"constellation:write",
	"cloudchamber:write",
	"teams:read",
	"teams:write",
	"teams:pii",
	"teams:secure_location",
	"sso-connector:read",
	"sso-connector:write",
	"connectivity:admin",
	"connectivity:bind",
	"connectivity:read",
	"cfone:read",
	"cfone:write",
	"dex:read",
	"dex:write",
	"url_scanner:read",
	"url_scanner:write",
	"radar:read",
	"billing:read",
	"billing:write",
	"notebook-examples:read",
	"notebook-managed:read",
	"firstpartytags:write",
}

// LoginScopes is the minimal scope set used for the initial manual
// login and as the base set of the per-scope sweep.
var LoginScopes = []string{"offline_access", "user:read", "account:read"}
