package api

import (
	"context"
	"net/http"
)

// Dashboard fetches the combined dashboard payload.
func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	var resp DashboardData
	if err := c.do(ctx, http.MethodGet, "/dashboard/all", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DashboardMetrics fetches the KPI metrics alone.
func (c *Client) DashboardMetrics(ctx context.Context) (*Metrics, error) {
	var resp Metrics
	if err := c.do(ctx, http.MethodGet, "/dashboard/metrics", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevenueTrend fetches the revenue trend series.
func (c *Client) RevenueTrend(ctx context.Context) ([]TrendPoint, error) {
	var resp []TrendPoint
	if err := c.do(ctx, http.MethodGet, "/dashboard/revenue-trend", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SalesByCategory fetches the sales-by-category breakdown.
func (c *Client) SalesByCategory(ctx context.Context) ([]CategorySales, error) {
	var resp []CategorySales
	if err := c.do(ctx, http.MethodGet, "/dashboard/sales-by-category", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TopProducts fetches the top-products list.
func (c *Client) TopProducts(ctx context.Context) ([]ProductSales, error) {
	var resp []ProductSales
	if err := c.do(ctx, http.MethodGet, "/dashboard/top-products", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecentOrders fetches the recent-orders list.
func (c *Client) RecentOrders(ctx context.Context) ([]Order, error) {
	var resp []Order
	if err := c.do(ctx, http.MethodGet, "/dashboard/recent-orders", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
