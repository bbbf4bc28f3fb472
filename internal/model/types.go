package model

import "strconv"

// DefaultPort is the ssh port that needs no -p flag.
const DefaultPort = 22

// HostEntry is a normalized host extracted from an OpenSSH config.
type HostEntry struct {
	Alias        string `json:"alias"`
	HostName     string `json:"host_name,omitempty"`
	User         string `json:"user,omitempty"`
	Port         int    `json:"port,omitempty"`
	IdentityFile string `json:"identity_file,omitempty"`
	ProxyJump    string `json:"proxy_jump,omitempty"`
}

func (h HostEntry) DisplayTarget() string {
	if h.HostName != "" {
		return h.HostName
	}
	return h.Alias
}

// LoginTarget is the user@host address a bookmark stores for this host.
func (h HostEntry) LoginTarget() string {
	if h.User == "" {
		return h.DisplayTarget()
	}
	return h.User + "@" + h.DisplayTarget()
}

// ClientArgs returns the ssh flags needed to reproduce the host's settings
// without the config file, or nil when none are needed.
func (h HostEntry) ClientArgs() []string {
	var args []string
	if h.Port != 0 && h.Port != DefaultPort {
		args = append(args, "-p", strconv.Itoa(h.Port))
	}
	if h.IdentityFile != "" {
		args = append(args, "-i", h.IdentityFile)
	}
	if h.ProxyJump != "" {
		args = append(args, "-J", h.ProxyJump)
	}
	return args
}
