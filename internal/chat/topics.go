package chat

// Topic is one canned answer and the keywords that select it.
type Topic struct {
	Name        string
	Keywords    []string
	Content     string
	Suggestions []string
}

var greeting = Reply{
	Content:     "Hi! I'm your UnlockGrowth AI assistant. I can help you understand lending documents, investment opportunities, and guide you through our platform. What would you like to know?",
	Suggestions: []string{"Explain loan terms", "How does AI matching work?", "What documents do I need?", "Investment opportunities"},
}

// topics are checked in order; the first whose keyword appears in the
// message wins.
var topics = []Topic{
	{
		Name:        "documents",
		Keywords:    []string{"document", "paperwork", "need"},
		Content:     "For borrowers, you'll need:\n\n• Basic identification (driver's license or passport)\n• Business registration details\n• Recent mobile transaction history (last 3-6 months)\n• Optional: Community endorsements\n\nOur AI uses alternative data, so traditional credit history isn't required. We focus on your real business activity and payment patterns. Would you like help with a specific document?",
		Suggestions: []string{"Upload receipt demo", "Community endorsements?", "Mobile transactions", "Next steps"},
	},
	{
		Name:        "matching",
		Keywords:    []string{"ai", "matching", "algorithm"},
		Content:     "Our AI matching system analyzes multiple data points:\n\n🧠 Alternative Data: Mobile payments, transaction patterns, business activity\n🤝 Community Signals: Endorsements and local business networks\n📊 Risk Assessment: Smart profiling without traditional credit scores\n🎯 Compatibility Matching: Connects you with lenders who understand your business type\n\nThe system is designed to be inclusive and fair, especially for Indigenous businesses, migrants, rural SMEs, and young entrepreneurs.",
		Suggestions: []string{"How accurate is it?", "Privacy concerns?", "Success rates", "Get started"},
	},
	{
		Name:        "investing",
		Keywords:    []string{"invest", "lender", "return"},
		Content:     "As a lender on UnlockGrowth:\n\n💰 Expected Returns: 8-15% annual returns based on risk profile\n🛡️ Risk Management: Diversification tools and AI-powered risk assessment\n📈 Portfolio Options: Choose specific sectors, regions, or business types\n🤝 Impact Investment: Support underbanked communities while earning returns\n\nYou maintain control over your investment choices, with full transparency on borrower profiles and loan terms.",
		Suggestions: []string{"Minimum investment?", "Risk levels", "Withdrawal terms", "Become a lender"},
	},
	{
		Name:        "loans",
		Keywords:    []string{"loan", "borrow", "terms", "interest"},
		Content:     "Loan terms at UnlockGrowth:\n\n💵 Loan Amounts: $5,000 - $250,000\n⏱️ Repayment Period: 6-60 months flexible terms\n📊 Interest Rates: 7-18% (based on AI risk assessment, not credit scores)\n🔄 Repayment: Flexible schedules aligned with business cash flow\n✅ No Hidden Fees: Transparent pricing, no prepayment penalties\n\nRates are personalized based on your business data and payment patterns, not traditional credit history.",
		Suggestions: []string{"Calculate my rate", "Repayment example", "Apply now", "Eligibility check"},
	},
	{
		Name:        "getting_started",
		Keywords:    []string{"how", "use", "start", "platform"},
		Content:     "Getting started is easy:\n\n1️⃣ Sign Up: Quick registration with basic details\n2️⃣ Connect Data: Link mobile payments or upload transaction data\n3️⃣ AI Analysis: Our system assesses your profile (usually within 24 hours)\n4️⃣ Get Matched: Review compatible lenders and loan offers\n5️⃣ Secure Funding: E-sign documents and receive funds within 48 hours\n\nThe entire process typically takes 3-5 days from application to funding.",
		Suggestions: []string{"Sign up now", "What data is needed?", "Timeline details", "Support options"},
	},
	{
		Name:        "receipts",
		Keywords:    []string{"receipt", "transaction", "upload"},
		Content:     "Our Receipt Analysis Demo showcases how we use transaction data:\n\n📱 Upload receipts or transaction screenshots\n🤖 AI extracts patterns: spending, revenue, business activity\n📊 Builds alternative credit profile without traditional scores\n✅ Privacy-first: Data encrypted and used only for assessment\n\nThis innovative approach helps borrowers without formal credit history access funding based on real business activity.",
		Suggestions: []string{"Try receipt demo", "Privacy policy", "Data security", "Other data sources"},
	},
	{
		Name:        "eligibility",
		Keywords:    []string{"eligible", "qualify", "requirements"},
		Content:     "You may be eligible if you:\n\n✅ Have an active business (registered or operating)\n✅ Are 18+ years old and an Australian resident\n✅ Have regular business income or transactions\n✅ Can provide mobile payment or transaction history\n\nYou DON'T need:\n❌ Perfect credit score\n❌ Years of tax returns\n❌ Traditional banking relationships\n\nWe're specifically designed to support underbanked entrepreneurs, including Indigenous businesses, migrants, rural SMEs, and young business owners.",
		Suggestions: []string{"Check eligibility", "Indigenous support", "Migrant assistance", "Apply now"},
	},
}

var fallback = Reply{
	Content:     "I can help you with:\n\n📄 Understanding loan documents and terms\n💼 Investment opportunities and returns\n🤖 How our AI matching system works\n📱 Platform navigation and support\n🎯 Eligibility and application process\n\nWhat specific area would you like to explore?",
	Suggestions: []string{"Loan terms", "AI matching", "Get started", "Investment info"},
}
