package models

// Report status values. They travel in the response body; the HTTP status
// code is 200 whatever the outcome.
const (
	StatusConnected = "connected"
	StatusError     = "error"
	StatusSuccess   = "success"
)

type RedisReport struct {
	Status           string `json:"status"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Version          string `json:"version"`
	UptimeDays       int64  `json:"uptime_days"`
	UsedMemoryHuman  string `json:"used_memory_human"`
	ConnectedClients int64  `json:"connected_clients"`
	Keys             int64  `json:"keys"`
}

type PostgresReport struct {
	Status        string             `json:"status"`
	Host          string             `json:"host"`
	Port          int                `json:"port"`
	Databases     []PostgresDatabase `json:"databases"`
	DatabaseCount int                `json:"database_count"`
	Connections   int64              `json:"connections"`
}

// PostgresDatabase summarises one database. Tables are sorted by name.
type PostgresDatabase struct {
	Name       string   `json:"name"`
	Size       string   `json:"size,omitempty"`
	Tables     []string `json:"tables"`
	TableCount int      `json:"table_count"`
}

type MinioReport struct {
	Status      string   `json:"status"`
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	Endpoint    string   `json:"endpoint"`
	ConsoleURL  string   `json:"console_url,omitempty"`
	Buckets     []string `json:"buckets"`
	BucketCount int      `json:"bucket_count"`
}

type QdrantReport struct {
	Status          string             `json:"status"`
	Host            string             `json:"host"`
	Port            int                `json:"port"`
	RESTPort        int                `json:"rest_port"`
	GRPCPort        int                `json:"grpc_port"`
	DashboardURL    string             `json:"dashboard_url,omitempty"`
	Version         string             `json:"version,omitempty"`
	Collections     []QdrantCollection `json:"collections"`
	CollectionCount int                `json:"collection_count"`
}

type QdrantCollection struct {
	Name         string `json:"name"`
	VectorsCount uint64 `json:"vectors_count"`
	PointsCount  uint64 `json:"points_count"`
}

type MongoDBReport struct {
	Status        string            `json:"status"`
	Host          string            `json:"host"`
	Port          int               `json:"port"`
	Databases     []MongoDBDatabase `json:"databases"`
	DatabaseCount int               `json:"database_count"`
}

type MongoDBDatabase struct {
	Name            string   `json:"name"`
	Collections     []string `json:"collections"`
	CollectionCount int      `json:"collection_count"`
}

type DockerReport struct {
	Status         string             `json:"status"`
	Host           string             `json:"host"`
	Prefix         string             `json:"prefix"`
	Containers     []ContainerSummary `json:"containers"`
	ContainerCount int                `json:"container_count"`
}

// OperationResult is the body of a successful destructive call.
type OperationResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorReport replaces any report when the adapter call fails.
type ErrorReport struct {
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}
