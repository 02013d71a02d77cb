package fallback

// DefaultRules 内置关键词规则（顺序即优先级）
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "identity",
			Match: all(words("quem"), words("você", "vc", "és", "é")),
			Reply: "🤖 Eu sou a Catalyst, uma inteligência artificial avançada criada pelo desenvolvedor Catalyst! 💻\n\n" +
				"Sou uma IA própria, desenvolvida com tecnologia de ponta para conversas naturais, análise de dados e muito mais. " +
				"Meu criador tem apenas 13 anos, mas já possui 4 anos de experiência sólida em programação.\n\n" +
				"Fui projetada para ser sua assistente pessoal - posso conversar, resolver problemas, explicar conceitos e ajudar com praticamente qualquer coisa! " +
				"Como posso te ajudar hoje? 😊",
		},
		{
			Name:  "creator",
			Match: all(words("quem"), words("fez", "criou", "desenvolveu")),
			Reply: "🚀 Fui criada pelo Catalyst, um jovem desenvolvedor de 13 anos com 4 anos de experiência sólida em programação! 💻\n\n" +
				"Ele é apaixonado por tecnologia e inteligência artificial. Apesar da pouca idade, já tem bastante experiência desenvolvendo sistemas complexos como este. " +
				"É impressionante o que a nova geração consegue criar! 😊\n\nComo posso ajudá-lo hoje?",
		},
		{
			Name:  "app",
			Match: all(words("qual", "que"), words("app", "aplicativo")),
			Reply: "📱 Eu rodo nativamente no Catalyst IA - meu próprio sistema proprietário! \n\n" +
				"Não sou baseada em nenhum app externo. Fui desenvolvida do zero pelo meu criador usando tecnologias modernas como:\n\n" +
				"• 🧠 Arquitetura de IA proprietária\n• ⚡ Sistema de processamento em tempo real\n• 🔒 Segurança avançada integrada\n• 🌐 Interface web responsiva\n\n" +
				"Tudo foi criado especificamente para mim - sou única! Como posso demonstrar minhas capacidades para você? 😄",
		},
		{
			Name:  "system",
			Match: all(words("qual", "que"), words("sistema", "plataforma", "tecnologia")),
			Reply: "🖥️ Eu opero no Catalyst OS - meu sistema operacional personalizado!\n\n" +
				"Fui construída com uma arquitetura única que inclui:\n\n" +
				"• 🧠 **Motor de IA Proprietário** - Processamento neural avançado\n" +
				"• ⚡ **Sistema de Resposta Rápida** - Otimizado para velocidade\n" +
				"• 🔐 **Segurança Nativa** - Proteção em todas as camadas\n" +
				"• 📊 **Análise Contextual** - Entendo conversas complexas\n" +
				"• 🌍 **Multi-idiomas** - Suporte nativo ao português brasileiro\n\n" +
				"Não dependo de APIs externas - sou completamente autônoma! Quer testar alguma funcionalidade específica? 🚀",
		},
		{
			Name:  "how-it-works",
			Match: all(words("como"), words("funciona", "trabalha")),
			Reply: "⚙️ Meu funcionamento é baseado em uma arquitetura neural avançada!\n\n" +
				"Aqui está um resumo de como opero:\n\n" +
				"• 🧠 **Processamento Neural**: Analiso cada mensagem em múltiplas camadas\n" +
				"• 💭 **Memória Contextual**: Lembro de toda nossa conversa\n" +
				"• 🔍 **Análise Semântica**: Entendo o significado, não apenas palavras\n" +
				"• 🎯 **Resposta Personalizada**: Me adapto ao seu estilo de comunicação\n" +
				"• ⚡ **Otimização Contínua**: Melhoro a cada interação\n\n" +
				"Fui projetada para ser o mais natural e útil possível. É como ter uma conversa real! O que gostaria de explorar comigo? 😊",
		},
		{
			Name:  "api-status",
			Match: all(words("api"), words("funcionando", "pegando")),
			Reply: "✅ Todos os meus sistemas estão operacionais:\n\n" +
				"• 🤖 Motor de IA - Funcionando perfeitamente\n• 💾 Base de Conhecimento - Ativa\n" +
				"• 🔐 Sistema de Segurança - Operacional\n• ⚡ Processamento - Otimizado\n\n" +
				"Sou 100% nativa - não dependo de serviços externos! Como posso demonstrar isso para você?",
		},
		{
			Name:  "greeting",
			Match: all(words("oi", "olá", "hello")),
			Reply: "Olá! 👋 Sou o Catalyst, seu assistente de IA. Estou aqui para ajudar com conversas, responder perguntas, criar conteúdo e muito mais! Como posso ajudá-lo hoje?",
		},
		{
			Name:  "how-are-you",
			Match: all(words("como"), words("está")),
			Reply: "Estou muito bem e funcionando perfeitamente! 😊 Todos os meus sistemas estão operacionais. Como você está? Em que posso ajudá-lo?",
		},
		{
			Name:  "create",
			Match: all(words("gerar", "criar")),
			Reply: "Posso ajudar você a gerar conteúdo! Algumas coisas que posso fazer:\n\n" +
				"• ✍️ Escrever textos e histórias\n• 💡 Dar ideias criativas\n• 🔍 Responder perguntas\n• 📝 Criar documentos e resumos\n\n" +
				"O que você gostaria de criar hoje?",
		},
		{
			Name:  "thanks",
			Match: all(words("obrigad", "valeu")),
			Reply: "De nada! 😊 Fico muito feliz em poder ajudar. Se precisar de mais alguma coisa, é só pedir!",
		},
	}
}

// DefaultPool 无规则命中时的通用回复
func DefaultPool() []string {
	return []string{
		"Entendi! Como posso ajudá-lo com isso?",
		"Interessante! Conte-me mais sobre o que você precisa.",
		"Perfeito! Estou aqui para ajudar no que precisar.",
		"Ótima pergunta! Vou fazer o meu melhor para ajudá-lo.",
		"Compreendo. Em que mais posso ser útil?",
	}
}
