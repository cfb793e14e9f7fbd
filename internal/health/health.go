package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ServiceName is the gRPC health service name reported for the scheduler.
const ServiceName = "hydracat.notification.v1.Scheduler"

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Dependency is one backing service probed by readiness checks.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

func RedisDependency(client *redis.Client) Dependency {
	return Dependency{
		Name: "redis",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// Checker performs health checks on service dependencies.
type Checker struct {
	deps    []Dependency
	version string
}

var _ grpchealth.Checker = (*Checker)(nil)

// NewChecker creates a new health checker with the given dependencies.
func NewChecker(version string, deps ...Dependency) *Checker {
	return &Checker{
		deps:    deps,
		version: version,
	}
}

// Run performs health checks on all dependencies and returns the overall status.
func (c *Checker) Run(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	for _, dep := range c.deps {
		start := time.Now()
		if err := dep.Ping(checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[dep.Name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[dep.Name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

// Check implements the gRPC health protocol on top of the dependency checks.
func (c *Checker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if req.Service != "" && req.Service != ServiceName {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusUnknown}, nil
	}
	if c.Run(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Run(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

// Register mounts liveness, readiness and gRPC health endpoints on r.
func (c *Checker) Register(r gin.IRoutes) {
	r.GET("/health/live", c.LiveHandler())
	r.GET("/health/ready", c.ReadyHandler())
	r.GET("/health", c.ReadyHandler())

	path, handler := grpchealth.NewHandler(c)
	r.POST(path+"*method", gin.WrapH(handler))
}
