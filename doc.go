// Package nslog fornece um logger estruturado com seis pontos de entrada
// (Verbose, Debug, Log, Warn, Error e Fatal) que aceitam uma mensagem de
// qualquer tipo seguida de parâmetros opcionais, e escrevem uma linha JSON ou
// uma linha de texto colorida por chamada.
//
// Características principais:
//
//   - Filtro por nível mínimo (verbose < debug < log < warn < error < fatal)
//   - Rótulo de contexto: a última string entre os parâmetros
//   - Mappings mesclados no nível superior do objeto JSON
//   - Stack traces reconhecidos nas chamadas de Error
//   - Formato texto com cores ANSI (fatih/color) e formato JSON (zerolog)
//   - Logger global thread-safe e perfis de configuração
//   - Configuração por variáveis de ambiente, objeto de opções ou TOML
//   - Mascaramento opcional de campos sensíveis
//   - Middlewares para Gin, Fiber, net/http e gRPC
//   - Integração com PostgreSQL via PGX e métricas no DogStatsD
//
// # Uso Básico
//
//	log, err := nslog.New(nslog.Config{LogLevel: core.VERBOSE, Format: core.FormatJSON})
//	if err != nil {
//		panic(err)
//	}
//
//	log.Log("Hello structured log!", map[string]any{"foo": "bar"}, "bootstrap")
//	// {"severity":"INFO","time":"2024-01-02T03:04:05.678Z","message":"Hello structured log!","context":"bootstrap","foo":"bar"}
//
//	log.Error("query failed", err.Error()+"\n    at db.go:10:5", "Repository")
//	// {"severity":"ERROR",...,"stack_trace":"...","context":"Repository"}
//
// No formato texto a mesma chamada produz
//
//	INFO [bootstrap] Hello structured log! foo=bar
//
// # Campos Ordenados
//
// Maps comuns são percorridos em ordem alfabética de chave. Para controlar a
// ordem use core.Fields:
//
//	log.Log("User login successful", core.F("user_id", "123", "attempt", 1), "AuthService")
//
// # Configuração
//
// Variáveis de ambiente suportadas:
//
//   - NSLOG_LOG_LEVEL: nível mínimo (verbose, debug, log/info, warn, error, fatal)
//   - NSLOG_FORMAT: formato de saída (text, json)
//   - NSLOG_COLOR: cores do formato texto (always, never, auto)
//   - NSLOG_REDACT: mascaramento de campos sensíveis (true, false)
//
// O objeto de opções usa as chaves logLevel e format:
//
//	config, err := nslog.DecodeOptions(map[string]any{"logLevel": "verbose", "format": "json"})
//
// # Logger Global
//
//	nslog.InitWithProfile("production")
//	nslog.Log("service started", "main")
//
// Sem inicialização explícita, o logger global usa NewConfig: texto colorido a
// partir de INFO na saída padrão.
//
// # Tratamento de Falhas
//
// Nenhum ponto de entrada retorna erro nem propaga pânico. Falhas ao escrever
// no Sink e pânicos durante a formatação são reportados no ErrorWriter
// (os.Stderr por padrão).
package nslog
