package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	MongoDB         Category = "MongoDB"
	Postgres        Category = "Postgres"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
	Tracing         Category = "Tracing"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Store
	Connect   SubCategory = "Connect"
	Migration SubCategory = "Migration"

	// Api
	Api       SubCategory = "Api"
	Recovered SubCategory = "Recovered"

	// Messaging
	Publish SubCategory = "Publish"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RequestId    ExtraKey = "RequestId"
	UserAgent    ExtraKey = "UserAgent"
	Query        ExtraKey = "Query"
	ErrorMessage ExtraKey = "ErrorMessage"
	Driver       ExtraKey = "Driver"
	Address      ExtraKey = "Address"
	SourceKey    ExtraKey = "SourceKey"
)
