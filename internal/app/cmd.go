package app

import (
	"fmt"
	"io"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	CommandServe       Command = "serve"
	CommandMigrate     Command = "migrate"
	CommandReset       Command = "reset"
	CommandHealthcheck Command = "healthcheck"
	CommandHelp        Command = "help"
)

// commandUsage はサブコマンドごとの説明。並び順はusage出力の順序。
var commandUsage = []struct {
	cmd  Command
	desc string
}{
	{CommandServe, "APIサーバーを起動する（デフォルト）"},
	{CommandMigrate, "PostgreSQLのスキーマを最新にする（STORE_BACKEND=postgres のみ）"},
	{CommandReset, "保存済みのローカルデータを全て消去する"},
	{CommandHealthcheck, "起動中のサーバーの /health を確認する"},
	{CommandHelp, "この一覧を表示する"},
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
// "-h" と "--help" はCommandHelpとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "-h", "--help":
		return CommandHelp
	}
	for _, u := range commandUsage {
		if string(u.cmd) == args[0] {
			return u.cmd
		}
	}
	return CommandServe
}

// writeUsage はサブコマンド一覧をwに書き出す。
func writeUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: campmatch [command]")
	fmt.Fprintln(w)
	for _, u := range commandUsage {
		fmt.Fprintf(w, "  %-12s %s\n", u.cmd, u.desc)
	}
}
