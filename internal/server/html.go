package server

const chatPageHTML = `<!DOCTYPE html>
<html lang="tr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Trendyol Veri Asistanı</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; display: flex; flex-direction: column; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1rem 2rem; border-bottom: 1px solid #475569; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 1.25rem; background: linear-gradient(135deg, #fb923c, #f97316); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .header input { background: #1e293b; border: 1px solid #475569; border-radius: 8px; color: #e2e8f0; padding: 0.4rem 0.75rem; font-size: 0.8rem; width: 260px; }
        .chat { flex: 1; overflow-y: auto; padding: 1.5rem 2rem; display: flex; flex-direction: column; gap: 0.75rem; }
        .msg { max-width: 70%; padding: 0.75rem 1rem; border-radius: 12px; white-space: pre-wrap; line-height: 1.4; font-size: 0.9rem; }
        .msg.user { align-self: flex-end; background: #f97316; color: #0f172a; }
        .msg.bot { align-self: flex-start; background: #1e293b; border: 1px solid #334155; }
        .msg.bot a { color: #38bdf8; font-weight: 600; }
        .composer { display: flex; gap: 0.75rem; padding: 1rem 2rem; background: #1e293b; border-top: 1px solid #334155; }
        .composer input { flex: 1; background: #0f172a; border: 1px solid #475569; border-radius: 8px; color: #e2e8f0; padding: 0.75rem 1rem; font-size: 0.9rem; }
        .composer button { background: #f97316; color: #0f172a; border: none; border-radius: 8px; padding: 0.75rem 1.5rem; font-weight: 700; cursor: pointer; }
        .composer button:disabled { opacity: 0.5; cursor: wait; }
        .footer { text-align: center; padding: 0.5rem; color: #475569; font-size: 0.7rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Trendyol Veri Asistanı</h1>
        <input type="password" id="apikey" placeholder="Kendi API anahtarınız (isteğe bağlı)">
    </div>
    <div class="chat" id="chat"></div>
    <div class="composer">
        <input type="text" id="input" placeholder="Mesajınızı yazın..." autofocus>
        <button id="send">Gönder</button>
    </div>
    <div class="footer">Dosyalar 30 dakika sonra otomatik olarak silinir.</div>
    <script>
        const chat = document.getElementById('chat');
        const input = document.getElementById('input');
        const send = document.getElementById('send');
        let sessionId = null;

        function addMessage(text, cls, file) {
            const div = document.createElement('div');
            div.className = 'msg ' + cls;
            div.textContent = text;
            if (file) {
                const a = document.createElement('a');
                a.href = file.url;
                a.textContent = '⬇️ ' + file.name + ' indir';
                a.download = file.name;
                div.appendChild(document.createElement('br'));
                div.appendChild(a);
            }
            chat.appendChild(div);
            chat.scrollTop = chat.scrollHeight;
        }

        async function ensureSession() {
            if (sessionId) return;
            const key = document.getElementById('apikey').value.trim();
            const resp = await fetch('/api/sessions', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(key ? {api_key: key} : {})
            });
            const data = await resp.json();
            sessionId = data.id;
            addMessage(data.welcome, 'bot');
        }

        async function sendMessage() {
            const text = input.value.trim();
            if (!text) return;
            input.value = '';
            send.disabled = true;
            try {
                await ensureSession();
                addMessage(text, 'user');
                const resp = await fetch('/api/sessions/' + sessionId + '/messages', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({message: text})
                });
                const data = await resp.json();
                if (data.error) {
                    addMessage('Hata: ' + data.error, 'bot');
                } else {
                    addMessage(data.reply, 'bot', data.file);
                }
            } catch (err) {
                addMessage('Sunucuya ulaşılamadı: ' + err.message, 'bot');
            } finally {
                send.disabled = false;
                input.focus();
            }
        }

        send.addEventListener('click', sendMessage);
        input.addEventListener('keydown', e => { if (e.key === 'Enter') sendMessage(); });
        ensureSession();
    </script>
</body>
</html>`
