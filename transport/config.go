package transport

// Config describes a SIP transport the engine should open.
type Config struct {
	Proto Proto `json:"protocol" yaml:"protocol"`
	// Port is the local port. Zero means the protocol default port.
	Port int `json:"port" yaml:"port"`
	// PublicAddress is the address advertised in Via/Contact, if any.
	PublicAddress string `json:"publicAddress,omitempty" yaml:"public_address,omitempty"`
	// BoundAddress is the local address to bind to, if any.
	BoundAddress   string `json:"boundAddress,omitempty" yaml:"bound_address,omitempty"`
	QoSType        int    `json:"qosType" yaml:"qos_type"`
	MaxConnections int    `json:"maxConnections" yaml:"max_connections"`
}

// ConfigOverrides holds caller supplied values for [NewConfig].
// Nil fields keep the default value.
type ConfigOverrides struct {
	Proto          *Proto  `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Port           *int    `json:"port,omitempty" yaml:"port,omitempty"`
	PublicAddress  *string `json:"publicAddress,omitempty" yaml:"public_address,omitempty"`
	BoundAddress   *string `json:"boundAddress,omitempty" yaml:"bound_address,omitempty"`
	QoSType        *int    `json:"qosType,omitempty" yaml:"qos_type,omitempty"`
	MaxConnections *int    `json:"maxConnections,omitempty" yaml:"max_connections,omitempty"`
}

// DefaultConfig returns the default transport configuration:
// UDP on the protocol default port, no QoS and at most 16 connections.
// The port is left unresolved (zero).
func DefaultConfig() Config {
	return Config{
		Proto:          ProtoUDP,
		Port:           0,
		QoSType:        0,
		MaxConnections: 16,
	}
}

// NewConfig merges overrides onto [DefaultConfig] and resolves a zero port
// to the protocol default port.
//
// A protocol other than UDP, TCP or TLS keeps port 0: the caller must supply
// an explicit port for it.
func NewConfig(overrides *ConfigOverrides) Config {
	cfg := DefaultConfig()
	if o := overrides; o != nil {
		if o.Proto != nil {
			cfg.Proto = o.Proto.ToLower()
		}
		if o.Port != nil {
			cfg.Port = *o.Port
		}
		if o.PublicAddress != nil {
			cfg.PublicAddress = *o.PublicAddress
		}
		if o.BoundAddress != nil {
			cfg.BoundAddress = *o.BoundAddress
		}
		if o.QoSType != nil {
			cfg.QoSType = *o.QoSType
		}
		if o.MaxConnections != nil {
			cfg.MaxConnections = *o.MaxConnections
		}
	}

	if cfg.Port == 0 {
		cfg.Port = cfg.Proto.DefaultPort()
	}
	return cfg
}
