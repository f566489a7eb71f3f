package storage

import "os"

// HealthCheck checks both storage directories
func (s *Service) HealthCheck() map[string]string {
	status := make(map[string]string)

	for name, b := range map[string]*Bucket{
		"staged":      s.staged,
		"watermarked": s.watermarked,
	} {
		info, err := os.Stat(b.dir)
		switch {
		case err != nil:
			status[name] = "unhealthy: " + err.Error()
		case !info.IsDir():
			status[name] = "unhealthy: not a directory"
		default:
			status[name] = "healthy"
		}
	}
	return status
}
