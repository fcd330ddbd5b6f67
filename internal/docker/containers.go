package docker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/models"
	"github.com/docker/docker/api/types"
	"github.com/docker/go-connections/nat"
)

const shortIDLength = 12

// PrefixedName returns the first container name carrying prefix, without
// the leading "/" the daemon adds.
func PrefixedName(names []string, prefix string) (string, bool) {
	for _, name := range names {
		name = strings.TrimPrefix(name, "/")
		if strings.HasPrefix(name, prefix) {
			return name, true
		}
	}
	return "", false
}

// Summarize shapes a listed container. health is the inspected health status,
// empty when there is none. The image is named by its first tag.
func Summarize(c types.Container, name, health string, imageTags []string) models.ContainerSummary {
	id := c.ID
	if len(id) > shortIDLength {
		id = id[:shortIDLength]
	}

	image := models.ImageUnknown
	if len(imageTags) > 0 {
		image = imageTags[0]
	}

	if health == "" {
		health = models.HealthUnknown
	}

	return models.ContainerSummary{
		ID:     id,
		Name:   name,
		Image:  image,
		Status: c.State,
		Health: health,
		Ports:  FormatPorts(c.Ports),
	}
}

// FormatPorts renders ports as "ip:public->private/proto", or "private/proto"
// for ports that are exposed but not published.
func FormatPorts(ports []types.Port) []string {
	formatted := make([]string, 0, len(ports))
	for _, p := range ports {
		port, err := nat.NewPort(p.Type, strconv.Itoa(int(p.PrivatePort)))
		if err != nil {
			continue
		}

		if p.PublicPort == 0 {
			formatted = append(formatted, string(port))
			continue
		}

		ip := p.IP
		if ip == "" {
			ip = "0.0.0.0"
		}
		formatted = append(formatted, fmt.Sprintf("%s:%d->%s", ip, p.PublicPort, port))
	}
	return formatted
}
