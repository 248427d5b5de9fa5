//go:build darwin

package config

import "os/exec"

func secretGet(service, account string) ([]byte, error) {
	return exec.Command(
		"security", "find-generic-password",
		"-s", service,
		"-a", account,
		"-w",
	).Output()
}

func secretSet(service, account, value string) error {
	return exec.Command(
		"security", "add-generic-password",
		"-U",
		"-s", service,
		"-a", account,
		"-w", value,
	).Run()
}

func secretDelete(service, account string) error {
	return exec.Command(
		"security", "delete-generic-password",
		"-s", service,
		"-a", account,
	).Run()
}

func tokenHint() string {
	return "macOS Keychain (service: careernav, account: api_token)"
}
