// Package discovery registers service instances with Consul.
package discovery

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"
)

// Registration describes the instance being announced.
type Registration struct {
	ServiceName    string
	Address        string
	Port           int
	GRPCHealthPort int
	Tags           []string
}

// Registrar registers and deregisters instances with a Consul agent.
type Registrar struct {
	agent *api.Agent
}

// NewRegistrar creates a Registrar talking to the agent at address.
func NewRegistrar(address string) (*Registrar, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &Registrar{agent: client.Agent()}, nil
}

// Register announces the instance and returns its generated service id.
func (r *Registrar) Register(reg Registration) (string, error) {
	serviceID := fmt.Sprintf("%s-%s", reg.ServiceName, uuid.NewString())

	if err := r.agent.ServiceRegister(newServiceRegistration(serviceID, reg)); err != nil {
		return "", fmt.Errorf("failed to register service %s: %w", reg.ServiceName, err)
	}

	return serviceID, nil
}

// Deregister removes a previously registered instance.
func (r *Registrar) Deregister(serviceID string) error {
	return r.agent.ServiceDeregister(serviceID)
}

func newServiceRegistration(serviceID string, reg Registration) *api.AgentServiceRegistration {
	return &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    reg.ServiceName,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
		Check: &api.AgentServiceCheck{
			GRPC:                           net.JoinHostPort(reg.Address, strconv.Itoa(reg.GRPCHealthPort)),
			GRPCUseTLS:                     false,
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}
