package config

import "time"

const (
	KeyServerPort      = "server.port"
	KeyServerSecretKey = "server.secret_key"
	KeyTLSEnabled      = "server.tls.enabled"
	KeyTLSKeyFile      = "server.tls.key_file"
	KeyTLSCertFile     = "server.tls.cert_file"

	KeyVaultKind = "vault.kind"
	KeyVaultFile = "vault.file"

	KeyReportsBucket   = "reports.s3.bucket"
	KeyReportsRegion   = "reports.s3.region"
	KeyReportsEndpoint = "reports.s3.endpoint"
	KeyReportsAccess   = "reports.s3.access_key"
	KeyReportsSecret   = "reports.s3.secret_key"

	KeyFailureLimit   = "security.account_lock.failure_limit"
	KeyLookbackTime   = "security.account_lock.lookback_time"
	KeyLockDuration   = "security.account_lock.lock_duration"
	KeyPasswordExpiry = "security.password_expiry"

	DefaultFailureLimit   = 3
	DefaultLookbackTime   = 15 * time.Minute
	DefaultLockDuration   = 15 * time.Minute
	DefaultPasswordExpiry = 90 * 24 * time.Hour
)
