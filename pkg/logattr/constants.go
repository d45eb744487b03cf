package logattr

import "log/slog"

func ServiceName(serviceName string) slog.Attr {
	return slog.String("service_name", serviceName)
}

func Component(component string) slog.Attr {
	return slog.String("component", component)
}

func ProductId(productId int) slog.Attr {
	return slog.Int("product_id", productId)
}

func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

func Channel(channel string) slog.Attr {
	return slog.String("channel", channel)
}

func URL(url string) slog.Attr {
	return slog.String("url", url)
}

func Status(status int) slog.Attr {
	return slog.Int("status", status)
}

func Error(err string) slog.Attr {
	return slog.String("error", err)
}

func CorrelationId(correlationId string) slog.Attr {
	return slog.String("correlation_id", correlationId)
}
