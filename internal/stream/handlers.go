package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:activityID", websocket.New(func(c *websocket.Conn) {
		sub := hub.Subscribe(c.Params("activityID"))
		defer hub.Unsubscribe(sub)

		done := make(chan struct{})
		go func() {
			for msg := range sub.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))
}
