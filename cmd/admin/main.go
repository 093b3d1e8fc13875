package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"propchat/backend/internal/storage"
)

// Small ops CLI against the chat store, for support staff working outside
// the HTTP surface. Force-closing here skips room broadcasts on purpose:
// there is no hub in this process.
func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db)
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands:")
		fmt.Println("  open <admin_id>   list open chats owned by an admin")
		fmt.Println("  show <chat_id>    print a chat's message log")
		fmt.Println("  close <chat_id>   force-close a chat")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "open":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin open <admin_id>")
			os.Exit(1)
		}
		sessions, err := store.ListOpenSessionsForAdmin(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error listing open chats: %v", err)
		}
		for _, s := range sessions {
			fmt.Printf("%s  property=%s  user=%s  updated=%s\n",
				s.ID, s.PropertyID, s.UserID, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d open chat(s).\n", len(sessions))

	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <chat_id>")
			os.Exit(1)
		}
		session, err := store.GetSession(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error loading chat: %v", err)
		}
		fmt.Printf("chat %s  property=%s  closed=%v\n", session.ID, session.PropertyID, session.IsClosed)
		for _, m := range session.Messages {
			fmt.Printf("[%s] %s (%s): %s\n",
				m.Timestamp.Format("15:04:05"), m.SenderName, m.Sender, m.Content)
		}

	case "close":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin close <chat_id>")
			os.Exit(1)
		}
		session, transitioned, err := store.CloseSession(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error closing chat: %v", err)
		}
		if !transitioned {
			fmt.Printf("Chat %s was already closed.\n", session.ID)
			return
		}
		fmt.Printf("Chat %s has been closed.\n", session.ID)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
