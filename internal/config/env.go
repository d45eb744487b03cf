// Package config reads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

func MustGetEnv(envName string) string {
	value, found := os.LookupEnv(envName)
	if !found {
		panic("env var not defined: " + envName)
	}
	return value
}

func MustGetIntEnv(envName string) int {
	strEnvValue := MustGetEnv(envName)
	intEnvValue, err := strconv.Atoi(strEnvValue)
	if err != nil {
		panic("env var is not an int: " + envName)
	}
	return intEnvValue
}

func GetEnv(envName string, defaultValue string) string {
	if value, found := os.LookupEnv(envName); found {
		return value
	}
	return defaultValue
}

func GetIntEnv(envName string, defaultValue int) int {
	value, found := os.LookupEnv(envName)
	if !found {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("env var %s is not an int: %s", envName, value))
	}
	return intValue
}
