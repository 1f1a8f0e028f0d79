// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultTokenIssuer      = "go-task-keeper"
	DefaultTokenDuration    = 7 * 24 * time.Hour
	DefaultPasswordHashCost = 10
	DefaultHTTPAddress      = "localhost:5000"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultLogLevel         = "debug"
	DefaultAdapterAddress   = "http://localhost:5000"
	DefaultAdapterTimeout   = 10 * time.Second
	DefaultSeedPassword     = "123"
	DefaultSeedSecretKey    = "secret123"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      DefaultTokenIssuer,
			TokenDuration:    DefaultTokenDuration,
			PasswordHashCost: DefaultPasswordHashCost,
			LogLevel:         DefaultLogLevel,
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultAdapterTimeout,
		},
		Seed: Seed{
			Password:  DefaultSeedPassword,
			SecretKey: DefaultSeedSecretKey,
		},
	}
}
