package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/Robogera/roadwatch/pkg/config"
	"github.com/Robogera/roadwatch/pkg/synapse"

	mqtt "github.com/soypat/natiu-mqtt"
)

// Publishes the periodic traffic snapshots assembled by the analyzer
func mqttclient(
	ctx context.Context,
	parent_logger *slog.Logger,
	cfg *config.ConfigFile,
	snapshot_chan <-chan *synapse.Message,
) error {
	logger := parent_logger.With("coroutine", "mqttclient")

	client := mqtt.NewClient(
		mqtt.ClientConfig{
			Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 2048)},
			OnPub: func(pubHead mqtt.Header, varPub mqtt.VariablesPublish, r io.Reader) error {
				message, err := io.ReadAll(r)
				if err != nil {
					return err
				}
				logger.Info("Recieved", "header", pubHead.String(), "message", message)
				return nil
			},
		})

	connection, err := net.Dial("tcp", cfg.Mqtt.Broker)
	if err != nil {
		logger.Error("Can't reach the broker", "broker", cfg.Mqtt.Broker, "error", err)
		return err
	}

	connection_ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	err = client.Connect(connection_ctx, connection, &mqtt.VariablesConnect{
		ClientID: []byte(cfg.Mqtt.ClientId),
		Username: []byte(cfg.Mqtt.Username),
		Password: []byte(cfg.Mqtt.Password),
	})
	if err != nil {
		logger.Error("Can't connect", "broker", cfg.Mqtt.Broker, "error", err)
		return err
	}

	logger.Info("Connected", "broker", cfg.Mqtt.Broker, "topic", cfg.Mqtt.Topic)

	publish_flags, _ := mqtt.NewPublishFlags(mqtt.QoS0, false, false)

	var snapshot_id uint = 0

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cancelled by context")
			connection.Close()
			return context.Canceled
		case message := <-snapshot_chan:
			snapshot_id++
			command := &synapse.Command{
				Id:      snapshot_id,
				Sender:  cfg.Mqtt.ClientId,
				Type:    "snapshot",
				Message: message,
			}
			payload, err := command.ToPayload()
			if err != nil {
				logger.Error("Can't marshal snapshot", "error", err)
				continue
			}
			err = client.PublishPayload(
				publish_flags,
				mqtt.VariablesPublish{
					TopicName:        []byte(cfg.Mqtt.Topic),
					PacketIdentifier: uint16(snapshot_id),
				},
				payload)
			if err != nil {
				logger.Error("Can't publish", "topic", cfg.Mqtt.Topic, "error", err)
				return err
			}
			logger.Debug("Published", "id", snapshot_id, "bytes", len(payload))
		}
	}
}
