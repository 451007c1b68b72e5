package redisx

import "fmt"

const ns = "busgo:v1"

func KeyBusSummary(busID string) string {
	return fmt.Sprintf("%s:bus:%s:summary", ns, busID)
}

func KeyBusSeatMap(busID string) string {
	return fmt.Sprintf("%s:bus:%s:seatmap", ns, busID)
}

func KeyOverview() string {
	return ns + ":admin:overview"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelBusesChanged() string {
	return ns + ":buses:changed"
}
