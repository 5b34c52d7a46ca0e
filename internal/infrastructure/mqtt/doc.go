// Package mqtt provides MQTT client connectivity for Soundview.
//
// This package manages:
//   - Connection to the audio bridge's broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Soundview never speaks the player control protocol itself. An audio
// bridge daemon fronts the player fleet and mirrors each player onto the
// broker: retained announce/state topics for reads, command topics for
// writes.
//
//	Soundview ↔ MQTT Broker ↔ Audio Bridge ↔ Players
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all player events
//	err = client.Subscribe(mqtt.Topics{}.AllPlayerEvents(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a command
//	topic := mqtt.Topics{}.Command("RINCON_0001", "volume")
//	client.Publish(topic, []byte(`{"volume":25}`), 1, false)
package mqtt
