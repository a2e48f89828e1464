package config

import "github.com/cribwatch/relay/internal/api"

type AppConfig struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Security SecurityConfig `json:"security" yaml:"security"`
	Rooms    RoomsConfig    `json:"rooms" yaml:"rooms"`
	WebRTC   WebRTCConfig   `json:"webrtc" yaml:"webrtc"`
}

type ServerConfig struct {
	Port            int      `json:"port" yaml:"port"`
	PingIntervalSec int      `json:"pingIntervalSec" yaml:"pingIntervalSec"`
	AllowedOrigins  []string `json:"allowedOrigins" yaml:"allowedOrigins"`
}

type SecurityConfig struct {
	AdminCredential *string `json:"adminCredential" yaml:"adminCredential"`
	TLSCrtFile      *string `json:"tlsCrtFile" yaml:"tlsCrtFile"`
	TLSKeyFile      *string `json:"tlsKeyFile" yaml:"tlsKeyFile"`
}

type RoomsConfig struct {
	CodeLength        int `json:"codeLength" yaml:"codeLength"`
	IdleThresholdSec  int `json:"idleThresholdSec" yaml:"idleThresholdSec"`
	SweepIntervalSec  int `json:"sweepIntervalSec" yaml:"sweepIntervalSec"`
	OutboundQueueSize int `json:"outboundQueueSize" yaml:"outboundQueueSize"`
	// MessageRatePerSec and MessageBurst bound inbound status-update traffic
	// per connection.
	MessageRatePerSec float64 `json:"messageRatePerSec" yaml:"messageRatePerSec"`
	MessageBurst      int     `json:"messageBurst" yaml:"messageBurst"`
}

type WebRTCConfig struct {
	PeerConnectionConfig api.PeerConnectionConfig `json:"peerConnectionConfig" yaml:"peerConnectionConfig"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:            7860,
			PingIntervalSec: 30,
			AllowedOrigins:  []string{"*"},
		},
		Security: SecurityConfig{},
		Rooms: RoomsConfig{
			CodeLength:        6,
			IdleThresholdSec:  1800,
			SweepIntervalSec:  1800,
			OutboundQueueSize: 16,
			MessageRatePerSec: 5,
			MessageBurst:      10,
		},
		WebRTC: WebRTCConfig{
			PeerConnectionConfig: api.DefaultPeerConnectionConfig(),
		},
	}
}

type Option func(*AppConfig)

func WithPort(port int) Option {
	return func(c *AppConfig) { c.Server.Port = port }
}

func WithAdminCredential(credential string) Option {
	return func(c *AppConfig) { c.Security.AdminCredential = &credential }
}

func WithTLS(crtFile, keyFile string) Option {
	return func(c *AppConfig) {
		c.Security.TLSCrtFile = &crtFile
		c.Security.TLSKeyFile = &keyFile
	}
}

func WithIdleThresholdSec(sec int) Option {
	return func(c *AppConfig) { c.Rooms.IdleThresholdSec = sec }
}

func WithSweepIntervalSec(sec int) Option {
	return func(c *AppConfig) { c.Rooms.SweepIntervalSec = sec }
}

func WithPeerConnectionConfig(pc api.PeerConnectionConfig) Option {
	return func(c *AppConfig) { c.WebRTC.PeerConnectionConfig = pc }
}

func NewAppConfig(opts ...Option) AppConfig {
	cfg := DefaultAppConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
