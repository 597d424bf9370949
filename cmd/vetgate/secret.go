package main

import (
	"fmt"

	"github.com/vetgate/vetgate/internal/secrets"
)

func cmdSecret(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vetgate secret <set-api-key|get-api-key> [args...]")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	keyFile := cfg.APIKeyFile
	if keyFile == "" {
		keyFile = defaultDataPath("apikey.age")
	}

	enc, err := secrets.EnsureKeyFile(cfg.AgeKeyPath)
	if err != nil {
		return fmt.Errorf("create encryptor: %w", err)
	}

	switch args[0] {
	case "set-api-key":
		if len(args) < 2 {
			return fmt.Errorf("usage: vetgate secret set-api-key <key>")
		}
		if err := secrets.SaveAPIKey(enc, keyFile, args[1]); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
		fmt.Printf("API key encrypted to %s\n", keyFile)
		fmt.Printf("Set VETGATE_API_KEY_FILE=%s to use it\n", keyFile)

	case "get-api-key":
		key, err := secrets.LoadAPIKey(enc, keyFile)
		if err != nil {
			return fmt.Errorf("load api key: %w", err)
		}
		fmt.Print(key)

	default:
		return fmt.Errorf("unknown secret command: %s", args[0])
	}
	return nil
}
