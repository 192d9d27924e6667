package services

import (
	"fmt"
	"sync"

	"github.com/athapong/plasticity-go/pkg/cortex"
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/athapong/plasticity-go/pkg/sapien"
)

var DefaultPlasticityClient = sync.OnceValue(func() *plasticity.Client {
	cfg, err := plasticity.ConfigFromEnv()
	if err != nil {
		panic(fmt.Sprintf("invalid Plasticity configuration: %v", err))
	}
	if cfg.Token == "" {
		panic("PLASTICITY_API_KEY is not set, please set it in MCP Config")
	}

	return plasticity.NewClient(cfg)
})

var DefaultSapienService = sync.OnceValue(func() *sapien.Service {
	return sapien.New(DefaultPlasticityClient())
})

var DefaultCortexService = sync.OnceValue(func() *cortex.Service {
	return cortex.New(DefaultSapienService())
})
