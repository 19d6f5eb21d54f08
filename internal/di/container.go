// Package di provides dependency injection infrastructure for hederad.
package di

import (
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrServiceNotFound is returned when no service or builder has the requested name
var ErrServiceNotFound = errors.New("service not found")

// Container is the dependency injection container.
// It manages service registration and resolution.
type Container struct {
	mu       sync.RWMutex
	services map[string]interface{}
	builders map[string]Builder
	building singleflight.Group
}

// Builder is a function that creates a service instance.
// Builders may resolve their own dependencies through c.
type Builder func(c *Container) (interface{}, error)

// New creates a new dependency injection container.
func New() *Container {
	return &Container{
		services: make(map[string]interface{}),
		builders: make(map[string]Builder),
	}
}

// Register registers a service instance.
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterBuilder registers a builder function for lazy instantiation.
func (c *Container) RegisterBuilder(name string, builder Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builders[name] = builder
}

// Get retrieves a service by name, building it on first use. Concurrent
// first uses share a single build.
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	service, exists := c.services[name]
	builder, hasBuilder := c.builders[name]
	c.mu.RUnlock()

	if exists {
		return service, nil
	}
	if !hasBuilder {
		return nil, errors.Join(ErrServiceNotFound, errors.New(name))
	}

	service, err, _ := c.building.Do(name, func() (interface{}, error) {
		c.mu.RLock()
		built, exists := c.services[name]
		c.mu.RUnlock()
		if exists {
			return built, nil
		}

		built, err := builder(c)
		if err != nil {
			return nil, err
		}
		c.Register(name, built)
		return built, nil
	})
	return service, err
}

// MustGet retrieves a service or panics if not found.
func (c *Container) MustGet(name string) interface{} {
	service, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return service
}

// Has checks if a service is registered.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	if exists {
		return true
	}
	_, exists = c.builders[name]
	return exists
}

// Built reports whether the service has been instantiated
func (c *Container) Built(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	return exists
}

// ServiceNames returns all registered service names, sorted.
func (c *Container) ServiceNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[string]bool)
	for name := range c.services {
		names[name] = true
	}
	for name := range c.builders {
		names[name] = true
	}

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Clear removes all services and builders.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[string]interface{})
	c.builders = make(map[string]Builder)
}

// Service names constants for type-safe access.
const (
	ServiceConfig    = "config"
	ServiceLogger    = "logger"
	ServiceMetrics   = "metrics"
	ServiceHealth    = "health"
	ServiceStorage   = "storage"
	ServiceSchedules = "fee.schedules"
	ServiceAliases   = "aliases"
	ServiceMarshal   = "marshal"
)
