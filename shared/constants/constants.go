package constants

// Action names for the single-endpoint router. Keep in sync with page scripts.
const (
	ActionHome    = "home"
	ActionHealthz = "healthz"

	ActionApiConnect    = "api_connect"
	ActionApiDisconnect = "api_disconnect"

	ActionApiProfilesList  = "api_profiles_list"
	ActionApiProfilesSave  = "api_profiles_save"
	ActionApiProfileDelete = "api_profile_delete"

	ActionApiQueriesLoad   = "api_queries_load"
	ActionApiQueriesReload = "api_queries_reload"
	ActionApiQueryFiles    = "api_query_files"
	ActionApiQuerySelect   = "api_query_select"
	ActionApiQueryRun      = "api_query_run"
	ActionApiResultExport  = "api_result_export"
)

// Supported database types.
const (
	DriverPostgres  = "postgres"
	DriverODBC      = "odbc"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"
	DriverSQLServer = "sqlserver"
)

// Form and header keys shared by the page script and the API handlers.
const (
	CSRFHeaderKey = "X-CSRF-Token"
	CSRFFormKey   = "csrf_token"

	// ParamValuePrefix and ParamKindPrefix are followed by the placeholder number,
	// e.g. value_0 and kind_0.
	ParamValuePrefix = "value_"
	ParamKindPrefix  = "kind_"
)
