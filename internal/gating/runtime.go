package gating

// UnblockScript returns the client runtime served at /consent/runtime.js. It
// revives neutralized scripts and blocked embeds when a consentchange event
// fires, and implements click-to-load on embed placeholders (a scoped
// single-category grant through the save endpoint).
func UnblockScript() string {
	return unblockScript
}

// PlaceholderCSS returns the stylesheet for embed placeholders.
func PlaceholderCSS() string {
	return placeholderCSS
}

const unblockScript = `(function() {
	'use strict';

	function reviveScripts(categories) {
		document.querySelectorAll('script[data-consent-category]').forEach(function(script) {
			var category = script.getAttribute('data-consent-category');
			if (!categories[category]) {
				return;
			}
			var revived = document.createElement('script');
			Array.prototype.forEach.call(script.attributes, function(attr) {
				if (attr.name !== 'type' && attr.name !== 'data-consent-category') {
					revived.setAttribute(attr.name, attr.value);
				}
			});
			revived.type = 'text/javascript';
			if (script.textContent) {
				revived.textContent = script.textContent;
			}
			script.parentNode.replaceChild(revived, script);
		});
	}

	function loadEmbed(container) {
		var iframe = document.createElement('iframe');
		iframe.src = container.dataset.src;
		iframe.style.width = container.style.width || '100%';
		iframe.style.height = container.style.height || '400px';
		iframe.style.border = 'none';
		iframe.setAttribute('allowfullscreen', '');
		iframe.setAttribute('allow', 'accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture');
		container.parentNode.replaceChild(iframe, container);
	}

	function reviveEmbeds(categories) {
		document.querySelectorAll('.consent-blocked-content').forEach(function(container) {
			if (categories[container.dataset.consentCategory]) {
				loadEmbed(container);
			}
		});
	}

	document.addEventListener('click', function(e) {
		if (!e.target.classList.contains('consent-load-content')) {
			return;
		}
		var container = e.target.closest('.consent-blocked-content');
		if (!container || !window.cookieConsent) {
			return;
		}
		var categories = window.cookieConsent.getConsent();
		categories[container.dataset.consentCategory] = true;
		window.cookieConsent.saveConsent(categories, 'customize');
		loadEmbed(container);
	});

	window.addEventListener('consentchange', function(e) {
		reviveScripts(e.detail.categories);
		reviveEmbeds(e.detail.categories);
	});
})();
`

const placeholderCSS = `.consent-blocked-content {
	background: #1d2327;
	display: flex;
	align-items: center;
	justify-content: center;
	position: relative;
	min-height: 200px;
}
.consent-blocked-inner {
	text-align: center;
	padding: 30px;
	color: #fff;
}
.consent-blocked-inner p {
	margin: 0 0 20px 0;
	font-size: 14px;
	opacity: 0.9;
}
.consent-load-content {
	background: #2271b1;
	color: #fff;
	border: none;
	padding: 12px 24px;
	font-size: 14px;
	cursor: pointer;
	border-radius: 4px;
}
.consent-load-content:hover {
	opacity: 0.9;
}
`
