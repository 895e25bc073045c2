package api

// QueryOptions are forwarded with every natural-language query.
type QueryOptions struct {
	IncludeExplanation      bool `json:"includeExplanation"`
	ValidateBeforeExecution bool `json:"validateBeforeExecution"`
	MaxResults              int  `json:"maxResults"`
}

// QueryRequest is the body of POST /nlq/query.
type QueryRequest struct {
	Query    string       `json:"query"`
	Language string       `json:"language"`
	Options  QueryOptions `json:"options"`
}

// Column pairs a result column's name with its declared or inferred type.
// Column order is display order.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ResultSet holds the tabular payload of an executed query.
// Rows are keyed by column name and never mutated after receipt.
type ResultSet struct {
	Data     []map[string]any `json:"data"`
	Columns  []Column         `json:"columns"`
	RowCount int              `json:"rowCount"`
}

// QueryResponse is the backend's answer to a natural-language query
// or a direct SQL execution.
type QueryResponse struct {
	Success        bool       `json:"success"`
	Result         *ResultSet `json:"result,omitempty"`
	GeneratedSQL   string     `json:"generatedSQL,omitempty"`
	Explanation    string     `json:"explanation,omitempty"`
	Confidence     float64    `json:"confidence,omitempty"`
	ExecutionTime  float64    `json:"executionTime,omitempty"`
	RelevantTables []string   `json:"relevantTables,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// GenerateSQLRequest is the body of POST /nlq/generate-sql.
type GenerateSQLRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// GenerateSQLResponse carries the SQL translated from a question.
type GenerateSQLResponse struct {
	Success bool   `json:"success"`
	SQL     string `json:"sql"`
	Error   string `json:"error,omitempty"`
}

// ExecuteSQLRequest is the body of POST /nlq/execute-sql.
type ExecuteSQLRequest struct {
	SQL     string       `json:"sql"`
	Options QueryOptions `json:"options"`
}

// SuggestionsResponse is the answer to GET /nlq/suggestions.
type SuggestionsResponse struct {
	Success     bool     `json:"success"`
	Suggestions []string `json:"suggestions"`
}

// SchemaColumn describes one column of a backend table.
type SchemaColumn struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}

// Schema maps table names to their columns.
type Schema map[string][]SchemaColumn

// SchemaResponse is the answer to GET /nlq/schema.
type SchemaResponse struct {
	Success bool   `json:"success"`
	Schema  Schema `json:"schema"`
	Error   string `json:"error,omitempty"`
}

// Relationship declares a join path between two tables, used to improve
// SQL generation on the backend.
type Relationship struct {
	FromTable  string `json:"fromTable"`
	FromColumn string `json:"fromColumn"`
	ToTable    string `json:"toTable"`
	ToColumn   string `json:"toColumn"`
}

// AckResponse is the generic acknowledgement shape for mutating endpoints.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health is the answer to GET /nlq/health.
type Health struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Stats is an opaque stats payload; last value wins.
type Stats map[string]any

// Metrics holds the dashboard KPI values.
type Metrics struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalOrders     int     `json:"totalOrders"`
	TotalCustomers  int     `json:"totalCustomers"`
	AvgOrderValue   float64 `json:"avgOrderValue"`
	RevenueChange   float64 `json:"revenueChange"`
	OrdersChange    float64 `json:"ordersChange"`
	CustomersChange float64 `json:"customersChange"`
}

// TrendPoint is one point of the revenue trend series.
type TrendPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

// CategorySales is one slice of the sales-by-category breakdown.
type CategorySales struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

// ProductSales is one row of the top-products list.
type ProductSales struct {
	Name     string  `json:"name"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
}

// Order is one row of the recent-orders list.
type Order struct {
	OrderID   string  `json:"orderId"`
	Customer  string  `json:"customer"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// DashboardData is the combined payload of GET /dashboard/all.
type DashboardData struct {
	Metrics         Metrics         `json:"metrics"`
	RevenueTrend    []TrendPoint    `json:"revenueTrend"`
	SalesByCategory []CategorySales `json:"salesByCategory"`
	TopProducts     []ProductSales  `json:"topProducts"`
	RecentOrders    []Order         `json:"recentOrders"`
}
