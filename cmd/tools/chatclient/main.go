package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/somaarjun/portfolio/backend/internal/client"
	"github.com/somaarjun/portfolio/backend/internal/model/contact"
	"github.com/somaarjun/portfolio/backend/internal/navigation"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	baseURL := flag.String("base", envOr("CHATCLIENT_BASE_URL", "http://localhost:8080/api"), "后端 API 地址")
	visits := flag.String("visits", defaultVisitsPath(), "访客计数文件路径")
	timeout := flag.Duration("timeout", 60*time.Second, "单次请求超时时间")
	flag.Parse()

	api := client.NewAPIClient(*baseURL, nil)

	manifestCtx, cancel := context.WithTimeout(context.Background(), *timeout)
	manifest, err := api.Assistant(manifestCtx)
	cancel()
	if err != nil {
		log.Printf("[WARN] 获取助手配置失败，使用内置配置: %v", err)
	}

	printer := &statePrinter{}
	session := client.NewSession(api, client.Options{
		Manifest: manifest,
		OnState:  printer.print,
	})
	defer session.Close()

	session.LoadPortfolio(api)
	session.CountVisit(client.NewVisitStore(*visits))

	fmt.Println("Type a message, /<section> to switch view, /quick <tag>, /form name|email|subject|message, /dismiss or /quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			report(session.Submit(line))
			continue
		}

		cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
		switch cmd {
		case "quit", "exit":
			return
		case "dismiss":
			report(session.DismissNotice())
		case "quick":
			report(session.QuickAction(strings.TrimSpace(arg)))
		case "form":
			submitForm(api, arg, *timeout)
		default:
			section, err := navigation.ParseSection(cmd)
			if err != nil {
				fmt.Printf("unknown command %q\n", cmd)
				continue
			}
			report(session.Select(section))
		}
	}
}

func submitForm(api *client.APIClient, arg string, timeout time.Duration) {
	parts := strings.Split(arg, "|")
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	form := contact.Form{Name: parts[0], Email: parts[1], Subject: parts[2], Message: strings.Join(parts[3:], "|")}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	id, err := api.Contact(ctx, form)
	if err != nil {
		fmt.Printf("! contact form rejected: %v\n", err)
		return
	}
	fmt.Printf("contact form accepted (%s)\n", id)
}

func report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, client.ErrPending):
		fmt.Println("! still waiting for the previous reply")
	default:
		fmt.Printf("! %v\n", err)
	}
}

// statePrinter 只在事件循环上调用，无需加锁。
type statePrinter struct {
	shown   int
	section navigation.Section
	visits  int64
	notice  bool
	loaded  bool
}

func (p *statePrinter) print(st client.State) {
	for _, m := range st.Conversation[p.shown:] {
		fmt.Printf("[%s] %s\n", m.Origin, m.Content)
	}
	p.shown = len(st.Conversation)

	if st.Active != p.section {
		fmt.Printf("== section: %s ==\n", st.Active)
		p.section = st.Active
	}
	if st.VisitorCount != p.visits {
		fmt.Printf("visitors: %d\n", st.VisitorCount)
		p.visits = st.VisitorCount
	}
	if st.Portfolio != nil && !p.loaded {
		fmt.Printf("portfolio loaded: %s, %d projects\n", st.Portfolio.Name, len(st.Portfolio.Projects))
		p.loaded = true
	}
	if (st.Notice != nil) != p.notice {
		if st.Notice != nil {
			fmt.Printf("! %s: %s\n", st.Notice.Title, st.Notice.Description)
		}
		p.notice = st.Notice != nil
	}
}

func defaultVisitsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "visits.json"
	}
	return filepath.Join(dir, "portfolio-chat", "visits.json")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
