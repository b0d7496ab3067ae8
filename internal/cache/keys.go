package cache

import "fmt"

func AnalyticsKey(kind string) string {
	return fmt.Sprintf("analytics:%s", kind)
}

func TaskStatusKey(taskID string) string {
	return fmt.Sprintf("task:%s", taskID)
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
